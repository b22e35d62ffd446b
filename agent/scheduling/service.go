package scheduling

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	appointmentx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/appointment"
	sheetx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/sheet"
)

// Result strings relayed to the model.
const (
	MsgSaved           = "Guardado exitoso. Código generado: %s"
	MsgOccupied        = "Horarios ocupados:"
	MsgNotFound        = "No se encontró la cita con el código especificado."
	MsgModified        = "Cita modificada exitosamente."
	MsgErased          = "Cita borrada exitosamente."
	MsgMissingHeaders  = "Problemas en el Excel de citas: faltan los encabezados %s."
	MsgInvalidInput    = "Error en los datos proporcionados: %s"
	MsgInvalidWeekday  = "Error: Día de la semana no válido. Usa 'Monday', 'Tuesday', etc."
	MsgInvalidStart    = "Error: la fecha de inicio debe tener el formato DD/MM/YYYY."
	MsgNothingToModify = "No se indicó ningún cambio para la cita."
)

// Service implements the scheduling tools. Every method returns a short
// human readable result; the error is reserved for failures of the store.
type Service struct {
	adapter *sheetx.Adapter
	locker  sheetx.Locker
	now     func() time.Time
	newCode appointmentx.CodeGenerator
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCodeGenerator(gen appointmentx.CodeGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

func WithLocker(locker sheetx.Locker) Option {
	return func(s *Service) {
		if locker != nil {
			s.locker = locker
		}
	}
}

func NewService(adapter *sheetx.Adapter, opts ...Option) *Service {
	s := &Service{
		adapter: adapter,
		locker:  sheetx.NewLocalLocker(),
		now:     time.Now,
		newCode: appointmentx.GenerateCode,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ValidateDate(_ context.Context, month, day int) (string, error) {
	return appointmentx.ValidateDate(s.now(), month, day), nil
}

// NextDayOfWeek returns the first date strictly after startDate on weekday, as DD/MM/YYYY.
func (s *Service) NextDayOfWeek(_ context.Context, startDate, weekday string) (string, error) {
	wd, ok := appointmentx.ParseWeekday(weekday)
	if !ok {
		return MsgInvalidWeekday, nil
	}
	start, err := appointmentx.ParseDate(startDate)
	if err != nil {
		return MsgInvalidStart, nil
	}
	return appointmentx.FormatDate(appointmentx.NextWeekday(start, wd)), nil
}

// WriteWithValidation stores the record in line unless its slot is taken.
func (s *Service) WriteWithValidation(ctx context.Context, line string) (string, error) {
	rec, err := appointmentx.ParseLine(line)
	if err != nil {
		return fmt.Sprintf(MsgInvalidInput, err), nil
	}

	date := appointmentx.FormatDate(rec.Date)
	clock := appointmentx.FormatClock(rec.Time)

	var out string
	err = s.locker.WithLock(ctx, func(ctx context.Context) error {
		conflict, occupied, err := s.adapter.HasConflict(ctx, date, clock, "")
		if err != nil {
			return err
		}
		if conflict {
			out = occupiedMessage(occupied)
			return nil
		}

		rec.Code = s.newCode(rec.Name)
		if err := s.adapter.AppendRecord(ctx, rec); err != nil {
			return err
		}
		log.Info().Str("code", rec.Code).Str("date", date).Str("time", clock).Msg("appointment saved")
		out = fmt.Sprintf(MsgSaved, rec.Code)
		return nil
	})
	if msg, ok := schemaMessage(err); ok {
		return msg, nil
	}
	if err != nil {
		return "", fmt.Errorf("write appointment: %w", err)
	}
	return out, nil
}

// ModifyRequest carries the fields to change. Empty strings are left untouched.
type ModifyRequest struct {
	Code     string
	Hour     string
	Date     string
	Modality string
}

// Modify applies the provided fields over the stored record. When the date or
// hour changes the slot is re-checked, ignoring the record itself.
func (s *Service) Modify(ctx context.Context, req ModifyRequest) (string, error) {
	cols := s.adapter.Columns()
	updates := make(map[string]string, 3)

	if v := strings.TrimSpace(req.Date); v != "" {
		d, err := appointmentx.ParseDate(v)
		if err != nil {
			return fmt.Sprintf(MsgInvalidInput, err), nil
		}
		updates[cols.Date] = appointmentx.FormatDate(d)
	}
	if v := strings.TrimSpace(req.Hour); v != "" {
		t, err := appointmentx.ParseClock(v)
		if err != nil {
			return fmt.Sprintf(MsgInvalidInput, err), nil
		}
		updates[cols.Time] = appointmentx.FormatClock(t)
	}
	if v := strings.TrimSpace(req.Modality); v != "" {
		updates[cols.Modality] = v
	}
	if len(updates) == 0 {
		return MsgNothingToModify, nil
	}

	code := strings.TrimSpace(req.Code)
	var out string
	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		headers, err := s.adapter.Headers(ctx)
		if err != nil {
			return err
		}
		// UpdateRow drops fields without a header
		if err := sheetx.RequireColumns(headers, slices.Sorted(maps.Keys(updates))...); err != nil {
			return err
		}

		idx, err := s.adapter.FindRowIndexByCode(ctx, code)
		if errors.Is(err, sheetx.ErrRowNotFound) {
			out = MsgNotFound
			return nil
		}
		if err != nil {
			return err
		}

		row, err := s.adapter.ReadRow(ctx, idx)
		if err != nil {
			return err
		}
		slotChanged := false
		for k, v := range updates {
			if (k == cols.Date || k == cols.Time) && row[k] != v {
				slotChanged = true
			}
			row[k] = v
		}

		if slotChanged {
			conflict, occupied, err := s.adapter.HasConflict(ctx, row[cols.Date], row[cols.Time], code)
			if err != nil {
				return err
			}
			if conflict {
				out = occupiedMessage(occupied)
				return nil
			}
		}

		if err := s.adapter.UpdateRow(ctx, idx, row); err != nil {
			return err
		}
		log.Info().Str("code", code).Msg("appointment modified")
		out = MsgModified
		return nil
	})
	if msg, ok := schemaMessage(err); ok {
		return msg, nil
	}
	if err != nil {
		return "", fmt.Errorf("modify appointment %s: %w", code, err)
	}
	return out, nil
}

// Erase deletes the record with code.
func (s *Service) Erase(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)

	var out string
	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		idx, err := s.adapter.FindRowIndexByCode(ctx, code)
		if errors.Is(err, sheetx.ErrRowNotFound) {
			out = MsgNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.adapter.DeleteRow(ctx, idx); err != nil {
			return err
		}
		log.Info().Str("code", code).Msg("appointment erased")
		out = MsgErased
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("erase appointment %s: %w", code, err)
	}
	return out, nil
}

func occupiedMessage(times []string) string {
	var b strings.Builder
	b.WriteString(MsgOccupied)
	for _, t := range times {
		b.WriteByte('\n')
		b.WriteString(t)
	}
	return b.String()
}

func schemaMessage(err error) (string, bool) {
	if err == nil || !errors.Is(err, sheetx.ErrMissingColumns) {
		return "", false
	}
	missing := strings.TrimSpace(strings.TrimPrefix(err.Error(), sheetx.ErrMissingColumns.Error()+":"))
	return fmt.Sprintf(MsgMissingHeaders, missing), true
}
