package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anorak1709/research-usecase-generator/internal/events"
)

// streamBuffer is the per-client event backlog.
const streamBuffer = 64

// StreamHandlers push live analysis events to browsers.
type StreamHandlers struct {
	bus *events.Bus
}

// NewStreamHandlers creates the stream handlers.
func NewStreamHandlers(bus *events.Bus) *StreamHandlers {
	return &StreamHandlers{bus: bus}
}

// HandleStream serves analysis events as Server-Sent Events until the client
// goes away. ?analysis_id= restricts the stream to one analysis.
func (h *StreamHandlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	filter := events.Filter{AnalysisID: r.URL.Query().Get("analysis_id")}

	ch, unsubscribe := h.bus.Subscribe(filter, streamBuffer)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			env, err := events.Wrap(evt)
			if err != nil {
				continue
			}
			data, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Type, data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
