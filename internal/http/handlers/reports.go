package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func reportQuery(r *http.Request) processor.ReportQuery {
	q := r.URL.Query()
	return processor.ReportQuery{
		Type:      processor.ReportType(r.PathValue("type")),
		Date:      q.Get("date"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
}

// ReportsHandler returns the settlement sheets of a daily, range or all report.
func ReportsHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := processor.Reports(reportQuery(r))
		if err != nil {
			writeError(w, "Failed to build reports", err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

// ExportReportsHandler returns the same reports as an XLSX workbook.
func ExportReportsHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := processor.Reports(reportQuery(r))
		if err != nil {
			writeError(w, "Failed to build reports", err)
			return
		}

		filename := fmt.Sprintf("report-%s.xlsx", set.Type)
		if set.StartDate != "" {
			filename = fmt.Sprintf("report-%s-%s-%s.xlsx", set.Type, set.StartDate, set.EndDate)
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := report.WriteXLSX(w, set.Reports); err != nil {
			// Headers are already sent.
			log.Error("Failed to write workbook", "error", err)
			return
		}
		processor.RecordExport()
	}
}
