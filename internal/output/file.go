package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSink writes the report to a file. The format comes from the
// extension unless given explicitly.
//
// The report goes to a temporary file next to path and replaces path on
// Close, only if Present succeeded. An earlier report at path survives runs
// that end without one.
type FileSink struct {
	path      string
	format    string
	file      *os.File
	mu        sync.Mutex
	presenter Presenter
	written   bool
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".json":
			format = "json"
		case ".txt", ".log":
			format = "text"
		default:
			return nil, fmt.Errorf("cannot infer report format from file extension %q", ext)
		}
	}

	if format != "json" && format != "text" {
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	s := &FileSink{path: path, format: format, file: f}
	if format == "json" {
		s.presenter = &JSONPresenter{writer: f}
	} else {
		s.presenter = &TextPresenter{writer: f, plain: true}
	}
	return s, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Present(r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.presenter.Present(r); err != nil {
		return err
	}
	s.written = true
	return nil
}

// Close moves a written report into place and discards an unwritten one.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.file.Name()
	err := s.file.Close()
	if err != nil || !s.written {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
