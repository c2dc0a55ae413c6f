// Package invoice renders a single-record sale document as a PDF with
// fixed-position fields and an optional embedded part image.
package invoice

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"servis32/internal/model"
)

// Layout constants (millimetres on an A4 page).
const (
	marginLeft = 20.0
	labelWidth = 40.0
	lineHeight = 9.0
	fieldsTop  = 50.0

	imageX     = 130.0
	imageY     = 50.0
	imageWidth = 60.0
)

// Render produces the PDF document for one invoice record.
// A missing or unreadable image file is skipped, not an error.
func Render(inv model.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(marginLeft, 25, "Servis32 - Invoice")

	date := inv.Date
	if date == "" {
		date = time.Now().Format("02.01.2006")
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, 35, "Date: "+date)

	total := inv.Price * float64(inv.Quantity)
	if inv.Total != nil {
		total = *inv.Total
	}

	fields := []struct {
		label string
		value string
	}{
		{"Brand", inv.Brand},
		{"Model", inv.Model},
		{"Part", inv.Name},
		{"Fuel", inv.Fuel},
		{"Engine", inv.Engine},
		{"Quantity", fmt.Sprintf("%d", inv.Quantity)},
		{"Price", fmt.Sprintf("%.2f", inv.Price)},
		{"Total", fmt.Sprintf("%.2f", total)},
		{"Location", inv.Location},
		{"Note", inv.Note},
	}

	y := fieldsTop
	for _, f := range fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(marginLeft, y, f.label+":")
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(marginLeft+labelWidth, y, f.value)
		y += lineHeight
	}

	if inv.ImagePath != "" {
		if _, err := os.Stat(inv.ImagePath); err == nil {
			opts := gofpdf.ImageOptions{ReadDpi: true}
			pdf.ImageOptions(inv.ImagePath, imageX, imageY, imageWidth, 0, false, opts, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
