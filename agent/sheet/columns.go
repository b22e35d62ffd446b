package sheet

import (
	"strings"

	appointmentx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/appointment"
)

// Columns names the header cells the adapter looks for.
type Columns struct {
	Code     string `envconfig:"CODE_COLUMN" default:"Codigo"`
	Name     string `envconfig:"NAME_COLUMN" default:"Nombre"`
	Email    string `envconfig:"EMAIL_COLUMN" default:"Correo"`
	Date     string `envconfig:"DATE_COLUMN" default:"Fecha"`
	Time     string `envconfig:"TIME_COLUMN" default:"Hora"`
	Modality string `envconfig:"MODALITY_COLUMN" default:"Modalidad"`
}

func DefaultColumns() Columns {
	return Columns{
		Code:     "Codigo",
		Name:     "Nombre",
		Email:    "Correo",
		Date:     "Fecha",
		Time:     "Hora",
		Modality: "Modalidad",
	}
}

// Headers lists the column names in record order, used to seed empty tables.
func (c Columns) Headers() []string {
	return []string{c.Code, c.Name, c.Email, c.Date, c.Time, c.Modality}
}

// Values keys the serialized record by column name.
func (c Columns) Values(rec appointmentx.Record) map[string]string {
	fields := appointmentx.Serialize(rec)
	out := make(map[string]string, len(fields))
	for i, name := range c.Headers() {
		out[name] = fields[i]
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
