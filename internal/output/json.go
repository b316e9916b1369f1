package output

import (
	"encoding/json"
	"io"
)

// JSONPresenter writes the report as one indented JSON document.
type JSONPresenter struct {
	writer io.Writer
}

func (p *JSONPresenter) Present(r Report) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return err
	}
	return flushIfPossible(p.writer)
}

// flusher is implemented by buffered writers such as bufio.Writer.
type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
