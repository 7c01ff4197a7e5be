package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// UseColors resolves a color mode (auto, always, never). Auto follows
// NO_COLOR, TERM=dumb and whether stdout is a terminal.
func UseColors(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// Printer writes user-facing output. Diagnostics go to the logger instead.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

func (p *Printer) paint(w io.Writer, attrs []color.Attribute, plainPrefix, format string, args ...any) {
	if p.useColors {
		c := color.New(attrs...)
		c.EnableColor()
		_, _ = c.Fprintf(w, format+"\n", args...)
		return
	}
	_, _ = fmt.Fprintf(w, plainPrefix+format+"\n", args...)
}

func (p *Printer) Print(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.paint(p.out, []color.Attribute{color.FgCyan}, "", format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.paint(p.out, []color.Attribute{color.FgGreen}, "", format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.paint(p.err, []color.Attribute{color.FgYellow}, "[WARN] ", format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.paint(p.err, []color.Attribute{color.FgRed}, "[ERROR] ", format, args...)
}

// Header prints a section title underlined to its width.
func (p *Printer) Header(title string) {
	line := make([]rune, len([]rune(title)))
	for i := range line {
		line[i] = '-'
	}
	if p.useColors {
		c := color.New(color.Bold)
		c.EnableColor()
		_, _ = c.Fprintf(p.out, "\n%s\n", title)
	} else {
		_, _ = fmt.Fprintf(p.out, "\n%s\n", title)
	}
	_, _ = fmt.Fprintf(p.out, "%s\n", string(line))
}

// Risk colors a risk level: red for high, green for low.
func (p *Printer) Risk(level string) string {
	if !p.useColors {
		return level
	}
	var c *color.Color
	switch level {
	case "High Risk", "high":
		c = color.New(color.FgRed, color.Bold)
	case "Low Risk", "low":
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgYellow)
	}
	c.EnableColor()
	return c.Sprint(level)
}

// Table renders rows under headers without borders.
func (p *Printer) Table(headers []string, rows [][]string) error {
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
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
