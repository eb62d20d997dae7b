// Package formatter renders articles as HTML paragraphs and aligned markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// AlignTables pads every markdown table in content so its columns line up by display
// width. Lines outside tables are left alone.
func AlignTables(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var table []string

	flush := func() {
		if len(table) > 0 {
			out = append(out, alignTable(table)...)
			table = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			table = append(table, line)

			continue
		}

		flush()

		out = append(out, line)
	}

	flush()

	return strings.Join(out, "\n")
}

// alignTable rewrites a block of table rows. A single row is returned unchanged.
func alignTable(rows []string) []string {
	if len(rows) < 2 {
		return rows
	}

	cells := make([][]string, 0, len(rows))
	cols := 0

	for _, row := range rows {
		parsed := splitRow(row)
		cols = max(cols, len(parsed))
		cells = append(cells, parsed)
	}

	sep := -1
	if isSeparator(cells[1]) {
		sep = 1
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for r, row := range cells {
		if r == sep {
			continue
		}

		for c, cell := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, 0, len(cells))
	for r, row := range cells {
		out = append(out, renderRow(row, widths, r == sep))
	}

	return out
}

// splitRow returns the trimmed cells of "| a | b |".
func splitRow(row string) []string {
	parts := strings.Split(row, "|")

	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}

	return cells
}

// isSeparator reports whether every cell is made of dashes and alignment colons.
func isSeparator(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return true
}

func renderRow(row []string, widths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for c, width := range widths {
		sb.WriteString(" ")

		switch {
		case separator:
			sb.WriteString(strings.Repeat("-", width))
		case c < len(row):
			sb.WriteString(runewidth.FillRight(row[c], width))
		default:
			sb.WriteString(strings.Repeat(" ", width))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
