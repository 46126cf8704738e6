package utils

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"trolleyseal/report"
	"trolleyseal/repository"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// GenerateSealReportPDF assembles the seal manifest for a flight and
// renders it to an A4 PDF through headless Chrome. Returns nil bytes when
// the flight does not exist.
func GenerateSealReportPDF(ctx context.Context, repo *repository.ReportRepository, flightID string) ([]byte, *report.Document, error) {
	flight, err := repo.GetFlightForReport(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}
	if flight == nil {
		return nil, nil, nil
	}

	scans, err := repo.GetScansForReport(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}

	doc := report.Assemble(flight, scans, report.Options{})

	tmpl, err := template.ParseFiles("templates/seal_report_template.html")
	if err != nil {
		return nil, nil, err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, doc); err != nil {
		return nil, nil, err
	}

	finalHTML := `
		<!DOCTYPE html>
		<html>
		<head>
		<meta charset="UTF-8">
		<style>
		@page {
			size: A4;
			margin: 20px;
		}
		body {
			font-family: Arial, Helvetica, sans-serif;
			font-size: 12px;
			margin: 0;
			padding: 0;
		}
		table {
			border-collapse: collapse;
			width: 100%;
		}
		td, th {
			border: 1px solid #000;
			padding: 4px;
		}
		.seal-number {
			font-size: 14px;
			font-weight: bold;
		}
		.section-header {
			background-color: #1e3a8a;
			color: white;
		}
		</style>
		</head>
		<body>` + body.String() + `</body></html>`

	tmpDir := os.TempDir()
	tmpHTML := filepath.Join(tmpDir, "seal_report_"+time.Now().Format("20060102150405")+".html")
	if err := os.WriteFile(tmpHTML, []byte(finalHTML), 0644); err != nil {
		return nil, nil, err
	}
	defer os.Remove(tmpHTML)

	chromeCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	fileURL := "file://" + tmpHTML

	err = chromedp.Run(chromeCtx,
		chromedp.Navigate(fileURL),
		chromedp.Sleep(1*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	return pdfBuf, doc, nil
}
