package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

var columnWidths = []float64{40, 30, 70, 40}

func renderPDF(readings []model.Temperature, r Range, loc *time.Location) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := tr(fmt.Sprintf("Températures du %s au %s", label(r.From, loc, "début"), label(r.To, loc, "fin")))

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, title)
		pdf.Ln(14)

		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(48, 110, 77)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range []string{"Date", "Heure", "Sonde", tr("Température (°C)")} {
			pdf.CellFormat(columnWidths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 10)
	}

	pdf.SetHeaderFunc(drawHeader)
	pdf.AddPage()

	if len(readings) == 0 {
		pdf.Cell(0, 8, tr("Aucune mesure sur la période."))
	}
	for i, t := range readings {
		fill := i%2 == 1
		pdf.SetFillColor(240, 240, 240)
		for j, c := range cells(t, loc) {
			align := "L"
			if j == 3 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[j], 7, tr(c), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
