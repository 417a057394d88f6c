package analysis

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JaimeStill/tolerance/internal/pipeline"
)

const (
	writeWait = 10 * time.Second
	readWait  = 60 * time.Second
)

// Socket runs an analysis over a websocket. The first client message is the
// request; every event is then sent as a JSON message. Closing the socket
// cancels the run.
func (h *Handler) Socket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if h.cfg.MaxRequestSize > 0 {
		conn.SetReadLimit(h.cfg.MaxRequestSize)
	}

	var req pipeline.Request
	conn.SetReadDeadline(time.Now().Add(readWait))
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Warn("websocket request unreadable", "error", err)
		h.close(conn, websocket.CloseUnsupportedData, "invalid request")
		return
	}

	if err := req.Validate(); err != nil {
		h.send(conn, pipeline.Event{
			Name: pipeline.EventError,
			Seq:  1,
			Data: pipeline.ErrorData{Error: err.Error(), Stage: pipeline.StageRequest},
		})
		h.close(conn, websocket.ClosePolicyViolation, "invalid request")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	go h.readPump(conn, cancel)

	stream := h.runs.Start(ctx, req)

	heartbeat := time.NewTicker(h.cfg.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case event, ok := <-stream.Events():
			if !ok {
				h.close(conn, websocket.CloseNormalClosure, "analysis finished")
				return
			}
			if err := h.send(conn, event); err != nil {
				h.logger.WarnContext(ctx, "websocket write failed", "event", event.Name, "error", err)
				return
			}

		case <-heartbeat.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-ctx.Done():
			h.logger.InfoContext(ctx, "client disconnected")
			return
		}
	}
}

// readPump drains client frames so control messages are processed, and
// cancels the run once the client goes away.
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, e pipeline.Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e)
}

func (h *Handler) close(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// checkOrigin accepts same-host requests, requests without an Origin header,
// and origins listed in the CORS configuration.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(h.cfg.Origins, "*") || slices.Contains(h.cfg.Origins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}
