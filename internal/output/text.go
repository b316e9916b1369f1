package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TextPresenter prints a colored header and one table per subject.
type TextPresenter struct {
	writer io.Writer
	plain  bool
}

func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{writer: w}
}

func (p *TextPresenter) Present(r Report) error {
	bold := p.style(color.Bold, color.FgCyan)
	if _, err := bold.Fprintln(p.writer, Headline(r)); err != nil {
		return err
	}

	if r.Samples.EngineFailed > 0 {
		warn := p.style(color.FgYellow)
		if _, err := warn.Fprintf(p.writer, "%d of %d engine run(s) could not execute and were excluded\n", r.Samples.EngineFailed, r.Samples.Total); err != nil {
			return err
		}
	}

	subjects := r.Subjects.Subjects()
	if len(subjects) == 0 {
		_, err := fmt.Fprintln(p.writer, "No statistics collected.")
		return err
	}

	for _, subject := range subjects {
		if _, err := fmt.Fprintln(p.writer); err != nil {
			return err
		}
		st := r.Subjects[subject]

		t := table.NewWriter()
		t.SetOutputMirror(p.writer)
		t.SetStyle(table.StyleLight)
		// Keep header case as written.
		t.Style().Format.Header = text.FormatDefault
		t.SetTitle(subject)
		t.AppendHeader(table.Row{"Statistic", "Total"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Total", Align: text.AlignRight},
		})
		for _, key := range st.Keys() {
			t.AppendRow(table.Row{key, FormatValue(st[key])})
		}
		t.Render()
	}
	return flushIfPossible(p.writer)
}

func (p *TextPresenter) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.plain {
		c.DisableColor()
	}
	return c
}

// Headline is the command-specific report header.
func Headline(r Report) string {
	switch r.Command {
	case CommandStressTest:
		return fmt.Sprintf("stress-test: %d trial(s) of %d spec(s) finished in %ds", r.Trials, r.Specs, r.ElapsedSeconds)
	case CommandRunParallel:
		return fmt.Sprintf("run-parallel: %d spec(s) finished in %ds", r.Specs, r.ElapsedSeconds)
	default:
		return fmt.Sprintf("%s finished in %ds", r.Command, r.ElapsedSeconds)
	}
}

// FormatValue prints whole numbers without a fractional part.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
