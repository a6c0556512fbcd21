// Package output renders CLI results for terminal display.
package output

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable writes a formatted table with the given headers to stdout.
func RenderTable(headers []string, rows [][]interface{}) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)

	hr := make(table.Row, 0, len(headers))
	for _, h := range headers {
		hr = append(hr, h)
	}
	w.AppendHeader(hr)

	for _, row := range rows {
		w.AppendRow(table.Row(row))
	}

	w.Render()
}
