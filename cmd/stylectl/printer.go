package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kailas-cloud/stylesearch"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// printer writes command results and errors.
type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(out, err io.Writer) *printer {
	return &printer{out: out, err: err}
}

func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Items renders search results. An empty list prints an explicit notice.
func (p *printer) Items(format string, items []stylesearch.Item) error {
	if format == outputJSON {
		return p.JSON(items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(p.out, "No recommendations found.")
		return err
	}

	rows := make([][]string, 0, len(items))
	for i := range items {
		it := &items[i]
		rows = append(rows, []string{
			rankCell(it.Rank, i),
			it.ProductID,
			it.Name,
			it.Brand,
			it.Price,
			it.Category,
			scoreCell(it.Score),
			it.Style,
			it.Occasion,
		})
	}
	return p.table([]string{"Rank", "Product", "Name", "Brand", "Price", "Category", "Score", "Style", "Occasion"}, rows)
}

// Facets renders filter dimensions with their options.
func (p *printer) Facets(format string, facets []stylesearch.Facet) error {
	if format == outputJSON {
		return p.JSON(facets)
	}
	rows := make([][]string, 0)
	for _, f := range facets {
		rows = append(rows, []string{f.Name, f.AllLabel})
		for _, o := range f.Options {
			rows = append(rows, []string{"", o})
		}
	}
	return p.table([]string{"Facet", "Value"}, rows)
}

func (p *printer) table(header []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// Error prints err to stderr with the failed constraint or upstream status when known.
func (p *printer) Error(err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(p.err, "Error: %s\n", err)

	var (
		ve *stylesearch.ValidationError
		he *stylesearch.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		_, _ = color.New(color.FgCyan).Fprintf(p.err, "  Constraint: %s\n", ve.Constraint)
	case errors.As(err, &he) && he.StatusCode != 0:
		_, _ = color.New(color.FgCyan).Fprintf(p.err, "  Status: %d\n", he.StatusCode)
	}
}

func rankCell(rank *int, i int) string {
	if rank == nil {
		return strconv.Itoa(i + 1)
	}
	return strconv.Itoa(*rank)
}

func scoreCell(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score*100, 'f', 0, 64) + "%"
}
