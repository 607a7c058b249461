package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nilsimda/leaderboard/models"
)

// Placeholder replaces empty cells so every field has something to show.
const Placeholder = "-"

// ParseTable turns a published sheet (one HTML table) into team rows.
// The first row is always the sheet header and is skipped.
func ParseTable(r io.Reader) (models.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet html: %w", err)
	}

	rows := models.Dataset{}
	doc.Find("tr").Each(func(rowIndex int, tr *goquery.Selection) {
		if rowIndex == 0 {
			return
		}

		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		row := make(models.TeamRow, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})

		// Re-exported sheets sometimes repeat the header further down.
		if isHeaderRow(row) {
			return
		}

		empty := true
		for i, value := range row {
			if value == "" {
				row[i] = Placeholder
			}
			if row[i] != Placeholder {
				empty = false
			}
		}
		if empty {
			return
		}

		rows = append(rows, row)
	})

	return rows, nil
}

func isHeaderRow(row models.TeamRow) bool {
	first := strings.ToLower(row.Field(0))
	second := strings.ToLower(row.Field(1))
	return first == "rank" || first == "#" || (first == "team name" && second == "score")
}
