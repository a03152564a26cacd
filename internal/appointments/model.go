package appointments

import (
	"fmt"
	"strings"
	"time"
)

// Status is the appointment lifecycle state as stored in the sheet.
// Pendente → Confirmado|Cancelado; Confirmado → Cancelado; Cancelado is terminal.
type Status string

const (
	StatusPending   Status = "Pendente"
	StatusConfirmed Status = "Confirmado"
	StatusCancelled Status = "Cancelado"
)

// Equal compares statuses the way the sheet does: case-insensitively.
func (s Status) Equal(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

// Active reports whether the appointment still occupies a slot from the
// conversational engine's perspective.
func (s Status) Active() bool {
	return s.Equal(StatusPending) || s.Equal(StatusConfirmed)
}

// Milestone records which reminder has already been sent for a row. Markers
// are opaque strings compared for equality, not ordered: a row can in
// principle receive the 2h reminder without the 24h one if the sweeper was
// down during the earlier window.
type Milestone string

const (
	MilestoneNone Milestone = ""
	Milestone24h  Milestone = "1"
	Milestone2h   Milestone = "2"
)

// Appointment is one booking attempt. Date, Time, and contact fields are
// immutable after creation; rescheduling is modeled as cancel + new row.
type Appointment struct {
	ID              string `json:"id"`
	PatientName     string `json:"nome"`
	Phone           string `json:"telefone"`
	Email           string `json:"email"`
	Date            string `json:"data_agendamento"` // DD/MM/YYYY
	Time            string `json:"horario"`          // HH:MM
	Status          Status `json:"status"`
	Procedure       string `json:"procedimento"`
	CalendarEventID string `json:"calendar_event_id"`
	NotifiedClient  Milestone `json:"notificado_cliente"`
	NotifiedDentist Milestone `json:"notificado_dentista"`
	CreatedAt       string `json:"criado_em"` // RFC 3339
}

// ProcedureLabel returns the procedure for patient-facing copy, with the
// generic fallback used when the column is empty.
func (a *Appointment) ProcedureLabel() string {
	if strings.TrimSpace(a.Procedure) == "" {
		return "sua avaliação"
	}
	return a.Procedure
}

// StartsAt composes the appointment instant from the stored date and time in
// the given location.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return ParseSlot(a.Date, a.Time, loc)
}

// ParseSlot parses a DD/MM/YYYY date and HH:MM time into an instant.
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	dateParts := strings.Split(strings.TrimSpace(date), "/")
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("appointments: malformed date %q", date)
	}
	day, errD := atoui(dateParts[0])
	month, errM := atoui(dateParts[1])
	year, errY := atoui(dateParts[2])
	if errD != nil || errM != nil || errY != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("appointments: malformed date %q", date)
	}
	clockParts := strings.Split(strings.TrimSpace(clock), ":")
	if len(clockParts) != 2 {
		return time.Time{}, fmt.Errorf("appointments: malformed time %q", clock)
	}
	hour, errH := atoui(clockParts[0])
	minute, errN := atoui(clockParts[1])
	if errH != nil || errN != nil || hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("appointments: malformed time %q", clock)
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), nil
}

func atoui(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
