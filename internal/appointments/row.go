package appointments

// The sheet is positional: columns A through L, one appointment per row.
// Implementations that are not literally a spreadsheet (Postgres, memory)
// still honor this layout when exporting rows for the dashboard.
const (
	colID = iota
	colName
	colPhone
	colEmail
	colDate
	colTime
	colStatus
	colProcedure
	colCalendarEventID
	colNotifiedClient
	colNotifiedDentist
	colCreatedAt
	columnCount
)

// Headers is the canonical header row, matching the original sheet.
var Headers = []string{
	"id", "nome", "telefone", "email", "data_agendamento", "horario",
	"status", "procedimento", "calendar_event_id", "notificado_cliente",
	"notificado_dentista", "criado_em",
}

// RowValues flattens an appointment into its positional cells.
func RowValues(a *Appointment) []string {
	row := make([]string, columnCount)
	row[colID] = a.ID
	row[colName] = a.PatientName
	row[colPhone] = a.Phone
	row[colEmail] = a.Email
	row[colDate] = a.Date
	row[colTime] = a.Time
	row[colStatus] = string(a.Status)
	row[colProcedure] = a.Procedure
	row[colCalendarEventID] = a.CalendarEventID
	row[colNotifiedClient] = string(a.NotifiedClient)
	row[colNotifiedDentist] = string(a.NotifiedDentist)
	row[colCreatedAt] = a.CreatedAt
	return row
}

// FromRow rebuilds an appointment from positional cells. Short rows are
// tolerated: missing trailing cells read as empty strings.
func FromRow(row []string) Appointment {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Appointment{
		ID:              cell(colID),
		PatientName:     cell(colName),
		Phone:           cell(colPhone),
		Email:           cell(colEmail),
		Date:            cell(colDate),
		Time:            cell(colTime),
		Status:          Status(cell(colStatus)),
		Procedure:       cell(colProcedure),
		CalendarEventID: cell(colCalendarEventID),
		NotifiedClient:  Milestone(cell(colNotifiedClient)),
		NotifiedDentist: Milestone(cell(colNotifiedDentist)),
		CreatedAt:       cell(colCreatedAt),
	}
}

// HeaderMap zips the canonical headers with an appointment's cells, the shape
// the dashboard listing returns.
func HeaderMap(a *Appointment) map[string]string {
	row := RowValues(a)
	out := make(map[string]string, len(Headers))
	for i, h := range Headers {
		out[h] = row[i]
	}
	return out
}
