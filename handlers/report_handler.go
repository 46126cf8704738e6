package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"trolleyseal/report"
	"trolleyseal/repository"
	"trolleyseal/store"
	"trolleyseal/utils"

	"go.uber.org/zap"
)

type ReportHandler struct {
	Repo        *repository.ReportRepository
	Flights     *store.FlightStore
	Log         *zap.Logger
	PDFSavePath string
}

// Preview handles GET /api/reports/preview?flight_id=... and returns the
// assembled manifest as JSON, exactly as it will print.
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")
	if flightID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id query parameter is required",
		})
		return
	}

	flight, err := h.Repo.GetFlightForReport(r.Context(), flightID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to fetch flight: " + err.Error(),
		})
		return
	}
	if flight == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{
			Success: false,
			Message: "Flight not found",
		})
		return
	}

	scans, err := h.Repo.GetScansForReport(r.Context(), flightID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to fetch seal scans: " + err.Error(),
		})
		return
	}

	doc := report.Assemble(flight, scans, report.Options{})

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Report assembled successfully",
		Data:    doc,
	})
}

// Generate handles POST /api/reports/generate?flight_id=... It renders the
// manifest to PDF, archives a copy, records the archive location on the
// flight and marks the flight printed.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")
	if flightID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id query parameter is required",
		})
		return
	}

	// Remember any previously archived copy; a regenerated report
	// replaces it.
	var previousURL string
	if flight, err := h.Repo.GetFlightForReport(r.Context(), flightID); err == nil && flight != nil && flight.PdfPath != nil {
		previousURL = *flight.PdfPath
	}

	pdfBytes, doc, err := utils.GenerateSealReportPDF(r.Context(), h.Repo, flightID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to generate report: " + err.Error(),
		})
		return
	}
	if pdfBytes == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{
			Success: false,
			Message: "Flight not found",
		})
		return
	}

	now := time.Now().UTC()
	filename := "seal_report_" + doc.FlightNumber + "_" + now.Format("20060102_150405") + ".pdf"

	if h.PDFSavePath != "" {
		localPath := filepath.Join(h.PDFSavePath, filename)
		if err := os.WriteFile(localPath, pdfBytes, 0644); err != nil {
			h.Log.Warn("failed to write local report copy",
				zap.String("path", localPath), zap.Error(err))
		}
	}

	fileURL, err := utils.ArchiveReportPDF(pdfBytes, filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to archive report: " + err.Error(),
		})
		return
	}

	if err := h.Flights.RecordReportFile(r.Context(), flightID, fileURL, now); err != nil {
		h.Log.Warn("failed to record report file on flight",
			zap.String("flight_id", flightID), zap.Error(err))
	}

	if previousURL != "" && previousURL != fileURL {
		if err := utils.DeleteArchivedReport(previousURL); err != nil {
			h.Log.Warn("failed to delete superseded report archive",
				zap.String("url", previousURL), zap.Error(err))
		}
	}

	// Status bookkeeping happens off the request path; the printed report
	// must not wait on it.
	go h.Flights.MarkPrinted(flightID)

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Report generated successfully",
		Data: map[string]interface{}{
			"url":      fileURL,
			"filename": filename,
			"document": doc,
		},
	})
}

// Download handles GET /api/reports/download?flight_id=... and streams the
// PDF directly, for stations without access to the archive bucket.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	flightID := r.URL.Query().Get("flight_id")
	if flightID == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "flight_id query parameter is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	pdfBytes, doc, err := utils.GenerateSealReportPDF(ctx, h.Repo, flightID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{
			Success: false,
			Message: "Failed to generate report: " + err.Error(),
		})
		return
	}
	if pdfBytes == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{
			Success: false,
			Message: "Flight not found",
		})
		return
	}

	go h.Flights.MarkPrinted(flightID)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="seal_report_`+doc.FlightNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// ExportExcel is a placeholder for the spreadsheet export some stations
// have asked for. The manifest PDF is the operational document today.
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, ApiResponse{
		Success: false,
		Message: "Excel export is not available yet",
	})
}
