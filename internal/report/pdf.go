package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer lays a Document out on A4 pages.
type PDFRenderer struct {
	// Font is a core PDF font family; Helvetica when empty.
	Font string
}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return ".pdf" }

var (
	brandColour = [3]int{23, 92, 211}
	mutedColour = [3]int{96, 104, 117}
	textColour  = [3]int{33, 37, 41}
)

func (p PDFRenderer) Render(w io.Writer, doc Document) error {
	font := p.Font
	if font == "" {
		font = "Helvetica"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 22)
	// Core fonts are cp1252; translate so currency symbols such as £ and € survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont(font, "I", 8)
		setText(pdf, mutedColour)
		pdf.MultiCell(0, 4, tr(doc.Footer), "", "C", false)
	})
	pdf.AddPage()

	pdf.SetFont(font, "B", 20)
	setText(pdf, brandColour)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont(font, "", 11)
		setText(pdf, mutedColour)
		pdf.CellFormat(0, 7, tr(doc.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, s := range doc.Sections {
		pdf.SetFont(font, "B", 13)
		setText(pdf, brandColour)
		pdf.CellFormat(0, 8, tr(s.Heading), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, row := range s.Rows {
			style := ""
			if row.Emphasised {
				style = "B"
				pdf.SetFillColor(235, 241, 252)
			}
			pdf.SetFont(font, style, 10.5)
			setText(pdf, textColour)
			pdf.CellFormat(110, 7, tr(row.Label), "", 0, "L", row.Emphasised, 0, "")
			pdf.CellFormat(0, 7, tr(row.Value), "", 1, "R", row.Emphasised, 0, "")
		}

		pdf.SetFont(font, "", 10.5)
		setText(pdf, textColour)
		for _, b := range s.Bullets {
			pdf.CellFormat(6, 6, tr("•"), "", 0, "L", false, 0, "")
			pdf.MultiCell(0, 6, tr(b), "", "L", false)
		}
		pdf.Ln(5)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func setText(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetTextColor(c[0], c[1], c[2])
}
