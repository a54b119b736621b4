package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/xuri/excelize/v2"
)

const (
	SessionsSheet     = "Sessions"
	ParticipantsSheet = "Participants"
)

var (
	sessionsHeader     = []any{"Date", "Participants", "Wins", "Losses", "Fees", "Net bet", "Receivable", "Outstanding", "Paid"}
	participantsHeader = []any{"Date", "Name", "Role", "Wins", "Losses", "Fee", "Payable", "Paid"}
)

// WriteXLSX writes the reports as a workbook with one row per session and
// one row per participant, followed by a grand total row.
func WriteXLSX(w io.Writer, reports []ledger.SessionReport) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SessionsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ParticipantsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, SessionsSheet, 1, sessionsHeader); err != nil {
		return err
	}
	if err := writeRow(f, ParticipantsSheet, 1, participantsHeader); err != nil {
		return err
	}

	sessionRow, participantRow := 2, 2
	for _, r := range reports {
		sum := r.Summary
		row := []any{
			r.Session.Date,
			sum.ParticipantCount,
			sum.TotalWins,
			sum.TotalLosses,
			sum.TotalFees,
			sum.NetBet,
			sum.TotalReceivable,
			sum.Outstanding,
			sum.PaidCount,
		}
		if err := writeRow(f, SessionsSheet, sessionRow, row); err != nil {
			return err
		}
		sessionRow++

		for _, l := range r.Lines {
			p := l.Participant
			row := []any{r.Session.Date, p.Name, string(p.Role), p.Wins, p.Losses, p.Fee, l.Payable, p.Paid}
			if err := writeRow(f, ParticipantsSheet, participantRow, row); err != nil {
				return err
			}
			participantRow++
		}
	}

	total := []any{"Total", nil, nil, nil, nil, nil, ledger.GrandTotal(reports)}
	if err := writeRow(f, SessionsSheet, sessionRow, total); err != nil {
		return err
	}

	for _, sheet := range []string{SessionsSheet, ParticipantsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}
	if err := f.SetRowStyle(SessionsSheet, sessionRow, sessionRow, bold); err != nil {
		return fmt.Errorf("failed to style total row: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Debug("Exported reports workbook", "sessions", len(reports), "participantRows", participantRow-2)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
