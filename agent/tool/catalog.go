package tool

import (
	"github.com/cloudwego/eino/schema"
)

const (
	ToolValidateDate = "validate_date"
	ToolNextDay      = "get_next_day"
	ToolWriteSheet   = "write_to_sheet_with_validation"
	ToolModifySheet  = "modify_sheet"
	ToolEraseSheet   = "erase_from_sheet"
	ToolLookupInfo   = "lookup_project_info"
)

// Catalog returns the tool descriptions offered to the decision model.
// The knowledge lookup is only offered when a knowledge base is wired.
func Catalog(withKnowledge bool) []*schema.ToolInfo {
	infos := []*schema.ToolInfo{
		{
			Name: ToolValidateDate,
			Desc: "Valida si la fecha solicitada existe, es futura, está dentro de los próximos 90 días y cae entre martes y domingo.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"month": {Type: schema.Integer, Desc: "Mes de la fecha (1-12)", Required: true},
				"day":   {Type: schema.Integer, Desc: "Día del mes (1-31)", Required: true},
			}),
		},
		{
			Name: ToolNextDay,
			Desc: "Encuentra la próxima fecha, siempre posterior a la fecha inicial, que cae en el día de la semana indicado. Devuelve DD/MM/YYYY.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"start_date": {Type: schema.String, Desc: "Fecha inicial en formato DD/MM/YYYY", Required: true},
				"weekday":    {Type: schema.String, Desc: "Día de la semana, por ejemplo 'Thursday' o 'jueves'", Required: true},
			}),
		},
		{
			Name: ToolWriteSheet,
			Desc: "Verifica que el horario esté libre y guarda la cita. Devuelve el código generado o los horarios ocupados de ese día.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"csv_line": {
					Type:     schema.String,
					Desc:     "Datos separados por comas: nombre,correo,YYYY-MM-DD,HH:MM:SS,modalidad. Ejemplo: Juan,juan@example.com,2024-12-01,10:00:00,virtual",
					Required: true,
				},
			}),
		},
		{
			Name: ToolModifySheet,
			Desc: "Modifica una cita existente dado su código. Solo se actualizan los campos enviados.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"code":     {Type: schema.String, Desc: "Código de la cita, por ejemplo JUA-b2295cec", Required: true},
				"hour":     {Type: schema.String, Desc: "Nueva hora en formato HH:MM:SS"},
				"date":     {Type: schema.String, Desc: "Nueva fecha en formato YYYY-MM-DD"},
				"modality": {Type: schema.String, Desc: "Nueva modalidad, por ejemplo virtual o presencial"},
			}),
		},
		{
			Name: ToolEraseSheet,
			Desc: "Borra una cita dado su código.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"code": {Type: schema.String, Desc: "Código de la cita a borrar", Required: true},
			}),
		},
	}

	if withKnowledge {
		infos = append(infos, &schema.ToolInfo{
			Name: ToolLookupInfo,
			Desc: "Consulta información general sobre la compañía (servicios, productos, metas).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Pregunta sobre la compañía", Required: true},
			}),
		})
	}
	return infos
}
