package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JaimeStill/tolerance/internal/pipeline"
	"github.com/JaimeStill/tolerance/pkg/handlers"
)

// Stream runs an analysis and writes its events as server-sent events.
// A comment line keeps idle connections open while a stage is running.
// The run is cancelled when the client disconnects.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	stream := h.runs.Start(ctx, req)

	heartbeat := time.NewTicker(h.cfg.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case event, ok := <-stream.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				h.logger.WarnContext(ctx, "sse write failed", "event", event.Name, "error", err)
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-ctx.Done():
			h.logger.InfoContext(ctx, "client disconnected")
			return
		}
	}
}

func writeEvent(w io.Writer, e pipeline.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Name, err)
	}

	_, err = fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", e.Name, e.Seq, data)
	return err
}
