package output

import (
	"errors"
	"fmt"
)

// Sink is a Presenter that holds a resource until closed.
type Sink interface {
	Presenter
	Close() error
}

// Manager fans one report out to several presenters.
type Manager struct {
	presenters []Presenter
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(p Presenter) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if p == nil {
		return fmt.Errorf("presenter must not be nil")
	}
	m.presenters = append(m.presenters, p)
	return nil
}

// Present writes r to every presenter, even when an earlier one fails.
func (m *Manager) Present(r Report) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, p := range m.presenters {
		if err := p.Present(r); err != nil {
			errs = append(errs, fmt.Errorf("present %T: %w", p, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors presenting report: %w", errors.Join(errs...))
	}
	return nil
}

func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, p := range m.presenters {
		s, ok := p.(Sink)
		if !ok {
			continue
		}
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
