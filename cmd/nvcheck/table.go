package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec describes one of nvcheck's result tables. statusColumn names the
// 1-based column holding tri-state outcome labels, which is colorized when
// the table is rendered for a terminal; 0 means no such column.
type tableSpec struct {
	headers      []string
	aligns       []columnAlignment
	statusColumn int
	colorize     bool
}

func renderTable(spec tableSpec, rows [][]string) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = spec.headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		config := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			config.Align = text.AlignRight
		}
		if spec.colorize && i+1 == spec.statusColumn {
			config.Transformer = statusCellTransformer
		}
		columnConfigs = append(columnConfigs, config)
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// statusCellTransformer colors the check outcome labels the way the status
// command colors its lines: green pass, red fail, yellow unknown.
func statusCellTransformer(val any) string {
	label := fmt.Sprint(val)
	switch label {
	case "satisfied":
		return text.FgGreen.Sprint(label)
	case "insufficient":
		return text.FgRed.Sprint(label)
	case "undetermined":
		return text.FgYellow.Sprint(label)
	}
	return label
}
