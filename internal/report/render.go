package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Renderer writes a Document in one output format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
	ContentType() string
	Extension() string
}

// TextRenderer writes a plain-text report. It is the fallback when the PDF
// path is unavailable.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (TextRenderer) Extension() string   { return ".txt" }

const textWidth = 72

func (TextRenderer) Render(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, doc.Title)
	fmt.Fprintln(bw, strings.Repeat("=", len([]rune(doc.Title))))
	if doc.Subtitle != "" {
		fmt.Fprintln(bw, doc.Subtitle)
	}

	for _, s := range doc.Sections {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, strings.ToUpper(s.Heading))
		fmt.Fprintln(bw, strings.Repeat("-", len([]rune(s.Heading))))
		for _, row := range s.Rows {
			label := row.Label
			if row.Emphasised {
				label = strings.ToUpper(label)
			}
			fmt.Fprintln(bw, padRow(label, row.Value))
		}
		for _, b := range s.Bullets {
			fmt.Fprintf(bw, "  * %s\n", b)
		}
	}

	if doc.Footer != "" {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, strings.Repeat("-", textWidth))
		fmt.Fprintln(bw, doc.Footer)
	}
	return bw.Flush()
}

// padRow right-aligns value so rows line up in a fixed-width column.
func padRow(label, value string) string {
	gap := textWidth - len([]rune(label)) - len([]rune(value))
	if gap < 2 {
		gap = 2
	}
	return label + strings.Repeat(" ", gap) + value
}
