package viewmodel

import "github.com/Makepad-fr/items/internal/model"

type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Status is what the view should display besides the items.
// Message is only set for StatusError.
type Status struct {
	Kind    StatusKind
	Message string
}

func (s Status) Loading() bool { return s.Kind == StatusLoading }

func (s Status) Err() string {
	if s.Kind == StatusError {
		return s.Message
	}
	return ""
}

// Snapshot is an immutable copy of view-model state, fed to renderers.
type Snapshot struct {
	Items  []model.Item
	Draft  model.Draft
	Status Status
}

// ShowEmpty reports whether the empty-state message replaces the grid.
func (s Snapshot) ShowEmpty() bool { return len(s.Items) == 0 && !s.Status.Loading() }

// ShowItems reports whether the grid is drawn.
func (s Snapshot) ShowItems() bool { return len(s.Items) > 0 && !s.Status.Loading() }
