package chat

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

var tableTemplate = template.Must(template.New("table").Parse(
	`<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse;">` +
		`<thead><tr><th>Timestamp</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr></thead>` +
		`<tbody>{{range .}}<tr><td>{{.Timestamp}}</td><td>{{.Open}}</td><td>{{.High}}</td><td>{{.Low}}</td><td>{{.Close}}</td><td>{{.Volume}}</td></tr>{{end}}</tbody></table>`,
))

type tableRow struct {
	Timestamp string
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
}

// RenderTable renders the newest rows of series as an HTML table. An empty
// series renders as "".
func RenderTable(series market.Series, rows int) (string, error) {
	points := series.Head(rows)
	if len(points) == 0 {
		return "", nil
	}
	data := make([]tableRow, 0, len(points))
	for _, p := range points {
		data = append(data, tableRow{
			Timestamp: p.Timestamp,
			Open:      formatPrice(p.Open),
			High:      formatPrice(p.High),
			Low:       formatPrice(p.Low),
			Close:     formatPrice(p.Close),
			Volume:    humanize.Comma(p.Volume),
		})
	}
	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render market table: %w", err)
	}
	return buf.String(), nil
}

// ComparisonHeader lists the latest close of every symbol, in order.
func ComparisonHeader(symbols []string, latest []float64) string {
	var b strings.Builder
	b.WriteString("\nComparison of latest prices:\n")
	for i, sym := range symbols {
		fmt.Fprintf(&b, "%s: $%s\n", sym, formatPrice(latest[i]))
	}
	return b.String()
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
