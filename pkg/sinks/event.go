package sinks

import (
	"time"

	"github.com/samvad-hq/skillbank-client/pkg/binding"
	"github.com/samvad-hq/skillbank-client/pkg/views"
)

// Event represents one observed lifecycle state of a view.
type Event struct {
	WatchID   string    `json:"watch_id"`
	ViewID    string    `json:"view_id"`
	Endpoint  string    `json:"endpoint"`
	Method    string    `json:"method"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Data      any       `json:"data,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

// NewEvent constructs an Event for the given view and state.
func NewEvent(watchID string, view views.View, state binding.State) Event {
	return Event{
		WatchID:   watchID,
		ViewID:    view.ID,
		Endpoint:  view.Endpoint,
		Method:    view.Method,
		Loading:   state.Loading,
		Error:     state.Error,
		Data:      state.Data,
		EmittedAt: time.Now().UTC(),
	}
}
