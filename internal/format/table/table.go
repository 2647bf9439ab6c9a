// Package table pads rows of cells into aligned columns for plain-text
// output. Column widths are measured in display cells so east-asian wide
// runes line up.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const gutter = "  "

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format returns one line per row, each column sized to its widest entry.
// Left-aligned cells in the final column are not padded, so lines carry no
// trailing whitespace.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(gutter)
			}
			pad := widths[c] - runewidth.StringWidth(cell)
			if pad < 0 {
				pad = 0
			}
			if alignmentOf(alignments, c) == AlignRight {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			if c < len(row)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		out[i] = b.String()
	}
	return out
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

func alignmentOf(alignments []Alignment, column int) Alignment {
	if column < len(alignments) {
		return alignments[column]
	}
	return AlignLeft
}
