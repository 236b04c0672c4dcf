// Package gateway is the WebSocket front door for the understanding
// engine. The speech-input collaborator opens one connection per
// customer, streams finalized transcripts and UI choices as JSON
// frames, and receives the prompt to speak plus the draft state to
// render.
package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"

	"github.com/ordervox/ordervox/internal/app"
	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/observe"
	"github.com/ordervox/ordervox/internal/order"
)

// maxFrameBytes bounds one inbound frame. Transcripts are short spoken
// utterances; anything larger is a misbehaving client.
const maxFrameBytes = 16 * 1024

// clientFrame is one inbound message.
type clientFrame struct {
	// Type is "transcript" or "choice".
	Type string `json:"type"`

	// Text is the finalized transcript for type "transcript".
	Text string `json:"text,omitempty"`

	// Value is the selected option key for type "choice". The value
	// "__cancel" aborts the open clarification.
	Value string `json:"value,omitempty"`
}

// serverFrame is one outbound message.
type serverFrame struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	State           string       `json:"state,omitempty"`
	Prompt          string       `json:"prompt,omitempty"`
	Options         []optionView `json:"options,omitempty"`
	ReopenListening bool         `json:"reopen_listening,omitempty"`
	Summary         *summaryView `json:"summary,omitempty"`
	DraftCleared    bool         `json:"draft_cleared,omitempty"`
	RecapOpen       bool         `json:"recap_open,omitempty"`
	Submitted       bool         `json:"submitted,omitempty"`
}

type optionView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type summaryView struct {
	Items      []itemView `json:"items"`
	TotalQty   int        `json:"total_qty"`
	TotalPrice float64    `json:"total_price"`
}

type itemView struct {
	Name      string   `json:"name"`
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
	Notes     []string `json:"notes,omitempty"`
	Group     string   `json:"group,omitempty"`
}

// Handler upgrades HTTP requests to ordering sessions.
type Handler struct {
	sessions *app.SessionManager
}

// New creates a gateway handler over the given session manager.
func New(sessions *app.SessionManager) *Handler {
	return &Handler{sessions: sessions}
}

// Register adds the /ws route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.ServeWS)
}

// ServeWS accepts one WebSocket connection and runs it as one ordering
// session until the client disconnects. The session language comes
// from the "lang" query parameter, falling back to the configured
// default.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		observe.Logger(r.Context()).Warn("gateway: websocket accept failed", "err", err)
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	ctx := r.Context()
	id := newSessionID()
	sess, err := h.sessions.Create(ctx, id, lang.Code(r.URL.Query().Get("lang")))
	if err != nil {
		conn.Close(websocket.StatusInternalError, "session create failed")
		return
	}
	defer h.sessions.Close(context.WithoutCancel(ctx), id)
	defer conn.Close(websocket.StatusNormalClosure, "session closed")

	log := observe.Logger(ctx).With("session_id", id)

	for {
		frame, err := readFrame(ctx, conn)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				log.Debug("gateway: connection closed", "err", err)
			}
			return
		}

		reply, err := h.dispatch(ctx, sess, frame)
		out := toFrame(reply, err)
		if err := writeFrame(ctx, conn, out); err != nil {
			log.Debug("gateway: write failed", "err", err)
			return
		}
	}
}

// dispatch routes one client frame to the session.
func (h *Handler) dispatch(ctx context.Context, sess *app.Session, frame clientFrame) (app.Reply, error) {
	switch frame.Type {
	case "transcript":
		return sess.HandleTranscript(ctx, frame.Text)
	case "choice":
		return sess.HandleChoice(ctx, frame.Value)
	default:
		return app.Reply{}, fmt.Errorf("gateway: unknown frame type %q", frame.Type)
	}
}

// toFrame maps a session reply (or the error it failed with) onto the
// wire. Dialog sequencing errors are reported to the client and keep
// the connection open.
func toFrame(reply app.Reply, err error) serverFrame {
	if err != nil {
		return serverFrame{Status: "error", Error: err.Error()}
	}

	f := serverFrame{
		Status:          "ok",
		State:           string(reply.State),
		Prompt:          reply.Prompt,
		ReopenListening: reply.ReopenListening,
		DraftCleared:    reply.DraftCleared,
		RecapOpen:       reply.RecapOpen,
		Submitted:       reply.Submitted,
	}
	for _, opt := range reply.Options {
		f.Options = append(f.Options, optionView{Key: opt.Key, Label: opt.Label})
	}
	if reply.Summary != nil {
		f.Summary = toSummaryView(*reply.Summary)
	}
	return f
}

func toSummaryView(s order.Summary) *summaryView {
	v := &summaryView{
		Items:      make([]itemView, 0, len(s.Items)),
		TotalQty:   s.TotalQty,
		TotalPrice: s.TotalPrice,
	}
	for _, it := range s.Items {
		v.Items = append(v.Items, itemView{
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Notes:     it.Notes,
			Group:     it.GroupLabel,
		})
	}
	return v
}

func readFrame(ctx context.Context, conn *websocket.Conn) (clientFrame, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return clientFrame{}, err
	}
	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return clientFrame{}, fmt.Errorf("gateway: decode frame: %w", err)
	}
	return frame, nil
}

func writeFrame(ctx context.Context, conn *websocket.Conn, frame serverFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("gateway: marshal frame: %w", err)
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("gateway: rand: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}
