package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/coordinator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Demo gateway; the real web layer owns auth and origin policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// analyzeRequest is the single message a client sends after connecting.
type analyzeRequest struct {
	Text       string   `json:"text"`
	SourceURL  string   `json:"source_url"`
	Language   string   `json:"language"`
	Topics     []string `json:"topics"`
	Kinds      []string `json:"kinds"`
	Tier       string   `json:"tier"`
	SessionKey string   `json:"session_key"`
}

// event is one server push: a per-kind result as it completes, then a final
// done (or error) frame.
type event struct {
	Event   string           `json:"event"` // "result", "done", "error"
	Result  *analysis.Result `json:"result,omitempty"`
	Errors  []string         `json:"errors,omitempty"`
	Message string           `json:"message,omitempty"`
}

type analyzeHandler struct {
	coord   *coordinator.Coordinator
	timeout time.Duration
	log     *log.Logger
}

func newAnalyzeHandler(coord *coordinator.Coordinator, timeout time.Duration, logger *log.Logger) *analyzeHandler {
	return &analyzeHandler{coord: coord, timeout: timeout, log: logger}
}

func (h *analyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req analyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(event{Event: "error", Message: "malformed request"})
		return
	}

	kinds := make([]analysis.Kind, 0, len(req.Kinds))
	for _, s := range req.Kinds {
		k, err := analysis.ParseKind(s)
		if err != nil {
			_ = conn.WriteJSON(event{Event: "error", Message: err.Error()})
			return
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		kinds = analysis.CoreKinds()
	}

	ctx := r.Context()
	cancel := func() {}
	if h.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
	}
	defer cancel()

	art := article.New(req.Text, req.SourceURL, req.Language, req.Topics)
	// RunStream invokes the callback from its aggregation loop, so the
	// websocket sees at most one writer.
	_, kindErrs, err := h.coord.RunStream(ctx, art, analysis.Request{
		Kinds:      kinds,
		Tier:       analysis.Tier(req.Tier),
		SessionKey: req.SessionKey,
	}, func(res analysis.Result) {
		_ = conn.WriteJSON(event{Event: "result", Result: &res})
	})
	if err != nil {
		// ErrContextMissing and ErrUnknownKind surface verbatim; both are
		// actionable by the client.
		_ = conn.WriteJSON(event{Event: "error", Message: err.Error()})
		return
	}

	done := event{Event: "done"}
	for _, e := range kindErrs {
		done.Errors = append(done.Errors, e.Error())
	}
	_ = conn.WriteJSON(done)
}
