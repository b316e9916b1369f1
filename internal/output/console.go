package output

import (
	"fmt"
	"io"
	"os"

	"swarmrun/internal/specs"

	"github.com/fatih/color"
)

// Console writes human-facing diagnostics (warnings, errors, progress).
type Console struct {
	writer io.Writer
}

func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{writer: w}
}

func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintf(c.writer, format+"\n", args...)
}

func (c *Console) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(c.writer, "Warning: "+format+"\n", args...)
}

func (c *Console) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(c.writer, "Error: "+format+"\n", args...)
}

// ResolutionWarning explains why no specs will run and how to fix it.
func (c *Console) ResolutionWarning(err *specs.ResolutionError) {
	if err == nil {
		return
	}
	c.Warnf("%v", err)
	switch err.Kind {
	case specs.NotFound:
		c.Infof("Hint: point --spec-root (or specRoot in swarmrun.yaml) at the directory holding your spec files.")
	case specs.EmptyResult:
		c.Infof("Hint: check the identifiers, --test-files and --exclude.")
	}
}
