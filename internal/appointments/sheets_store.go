package appointments

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/vitorfarias/agendabot/pkg/logging"
)

// Column letters for the cells mutated after creation.
const (
	letterStatus          = "G"
	letterCalendarEventID = "I"
	letterNotifiedClient  = "J"
	letterNotifiedDentist = "K"
)

// SheetsStore backs the appointment table with a Google spreadsheet, one
// appointment per row in columns A:L, header in row 1.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *logging.Logger
}

// SheetsConfig holds configuration for the spreadsheet backend.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
}

// NewSheetsStore builds a store over the Sheets API using service-account
// credentials.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, logger *logging.Logger) (*SheetsStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("appointments: spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "cadastro_agenda"
	}
	if logger == nil {
		logger = logging.Default()
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("appointments: create sheets service: %w", err)
	}
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

func (s *SheetsStore) dataRange() string {
	return s.sheetName + "!A:L"
}

// Append adds a new appointment row at the bottom of the sheet.
func (s *SheetsStore) Append(ctx context.Context, appt *Appointment) error {
	cells := RowValues(appt)
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.dataRange(), &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appointments: append row: %w", err)
	}
	s.logger.Info("appointment row appended", "id", appt.ID, "sheet", s.sheetName)
	return nil
}

// List reads all data rows (header excluded) oldest-first.
func (s *SheetsStore) List(ctx context.Context) ([]Appointment, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("appointments: read sheet: %w", err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}
	out := make([]Appointment, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		out = append(out, FromRow(row))
	}
	return out, nil
}

// SetStatus writes the status cell of the row holding id.
func (s *SheetsStore) SetStatus(ctx context.Context, id string, status Status) error {
	return s.setCell(ctx, id, letterStatus, string(status))
}

// SetCalendarEventID writes the calendar event cell; empty clears it.
func (s *SheetsStore) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	return s.setCell(ctx, id, letterCalendarEventID, eventID)
}

// SetMilestone writes the client and dentist marker cells. The two updates
// are independent; a failure between them leaves the dentist cell behind,
// which the sweep tolerates (only the client cell gates resends).
func (s *SheetsStore) SetMilestone(ctx context.Context, id string, m Milestone) error {
	if err := s.setCell(ctx, id, letterNotifiedClient, string(m)); err != nil {
		return err
	}
	return s.setCell(ctx, id, letterNotifiedDentist, string(m))
}

func (s *SheetsStore) setCell(ctx context.Context, id, column, value string) error {
	rowNum, err := s.rowNumber(ctx, id)
	if err != nil {
		return err
	}
	target := fmt.Sprintf("%s!%s%d", s.sheetName, column, rowNum)
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, target, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appointments: update %s: %w", target, err)
	}
	return nil
}

// rowNumber finds the 1-based sheet row for an id. Row 1 is the header, so
// data row i maps to sheet row i+2.
func (s *SheetsStore) rowNumber(ctx context.Context, id string) (int, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return i + 2, nil
		}
	}
	return 0, ErrNotFound
}

var _ Store = (*SheetsStore)(nil)
