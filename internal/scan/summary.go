package scan

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"mechanicape-archief/internal/models"
	"mechanicape-archief/pkg/utils"
)

const maxLabelWidth = 20

// FormatSummary renders the per-range scan results as an aligned markdown
// table with a totals row. Column widths are computed by display width so
// labels with wide runes still line up.
func FormatSummary(report *models.ScanReport) string {
	helper := utils.NewStringHelper()

	rows := [][]string{
		{"Range", "Scanned", "Saved", "Not found", "Malformed", "Too short"},
	}

	var totals models.RangeResult
	for _, r := range report.Ranges {
		rows = append(rows, []string{
			helper.TruncateString(r.Label, maxLabelWidth),
			strconv.Itoa(r.Scanned),
			strconv.Itoa(r.Saved),
			strconv.Itoa(r.NotFound),
			strconv.Itoa(r.Malformed),
			strconv.Itoa(r.TooShort),
		})

		totals.Scanned += r.Scanned
		totals.Saved += r.Saved
		totals.NotFound += r.NotFound
		totals.Malformed += r.Malformed
		totals.TooShort += r.TooShort
	}

	rows = append(rows, []string{
		"Total",
		strconv.Itoa(totals.Scanned),
		strconv.Itoa(totals.Saved),
		strconv.Itoa(totals.NotFound),
		strconv.Itoa(totals.Malformed),
		strconv.Itoa(totals.TooShort),
	})

	colWidths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Min width for the separator dashes
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder
	for idx, row := range rows {
		writeRow(&sb, row, colWidths)

		if idx == 0 {
			sb.WriteString("|")
			for _, width := range colWidths {
				sb.WriteString(" ")
				sb.WriteString(strings.Repeat("-", width))
				sb.WriteString(" |")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, colWidths []int) {
	sb.WriteString("|")

	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(cell)

		if padding := colWidths[i] - runewidth.StringWidth(cell); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}
