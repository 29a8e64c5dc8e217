package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"spellingb/internal/app"
	"spellingb/internal/domain"
)

// maxMessageBytes bounds one inbound client frame.
const maxMessageBytes = 4096

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	tick     time.Duration
	log      zerolog.Logger
}

// Option customizes a WSHandler.
type Option func(*WSHandler)

// WithTickInterval overrides the one-second countdown tick (tests).
func WithTickInterval(d time.Duration) Option {
	return func(h *WSHandler) { h.tick = d }
}

func NewWSHandler(service *app.GameService, log zerolog.Logger, opts ...Option) *WSHandler {
	h := &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tick: time.Second,
		log:  log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type keyPayload struct {
	Char string `json:"char"`
}

type submitPayload struct {
	Text *string `json:"text"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type playPayload struct {
	Index    int    `json:"index"`
	AudioRef string `json:"audioRef"`
}

type sharePayload struct {
	Text    string           `json:"text"`
	Outcome app.ShareOutcome `json:"outcome,omitempty"`
	Summary app.ShareSummary `json:"summary"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection owns the outbound queue of one socket.
type connection struct {
	send       chan outboundMessage
	writerDone chan struct{}
}

func (c *connection) push(msg outboundMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.writerDone:
		return false
	}
}

// socketAudio forwards pronunciation requests to the client, which owns the
// actual playback.
type socketAudio struct {
	conn  *connection
	index func() int
}

func (a socketAudio) Play(_ context.Context, audioRef string) error {
	if !a.conn.push(outboundMessage{Type: "play", Payload: playPayload{Index: a.index(), AudioRef: audioRef}}) {
		return errors.New("socket closed")
	}
	return nil
}

// socketShare hands share text to the client; the client decides between a
// native share sheet and the clipboard.
type socketShare struct{}

func (socketShare) OfferShare(context.Context, string) (app.ShareOutcome, error) {
	return app.ShareFallbackToClipboard, nil
}

// ServeWS upgrades HTTP requests to websockets and runs one game session per
// connection. A single loop goroutine owns the session; the reader and the
// countdown ticker feed it events.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := domain.ParseMode(q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	difficulty := domain.DifficultyEasy
	if raw := q.Get("difficulty"); raw != "" {
		if difficulty, err = domain.ParseDifficulty(raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	deviceID := q.Get("deviceId")
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := &connection{send: make(chan outboundMessage, 32), writerDone: make(chan struct{})}
	go func() {
		defer close(conn.writerDone)
		for msg := range conn.send {
			if err := ws.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()
	defer func() {
		close(conn.send)
		<-conn.writerDone
	}()

	var session *app.Session
	audio := socketAudio{conn: conn, index: func() int { return session.Snapshot().CurrentIndex }}
	session = h.service.NewSession(deviceID, mode, difficulty, audio, socketShare{})
	log := h.log.With().Str("session", session.ID()).Str("device", deviceID).Logger()

	if err := session.Open(ctx); err != nil {
		log.Error().Err(err).Msg("open session failed")
		conn.push(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	log.Debug().Str("mode", string(mode)).Str("phase", string(session.Phase())).Msg("session opened")

	events := make(chan inboundMessage)
	go func() {
		defer close(events)
		for {
			var in inboundMessage
			if err := ws.ReadJSON(&in); err != nil {
				return
			}
			select {
			case events <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		ticker *time.Ticker
		tickC  <-chan time.Time
		timer  uint64
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stopTicker()

	apply := func(intents []app.Intent) {
		for _, in := range intents {
			switch in.Kind {
			case app.IntentStartTimer:
				stopTicker()
				timer = in.Timer
				ticker = time.NewTicker(h.tick)
				tickC = ticker.C
			case app.IntentStopTimer:
				stopTicker()
			}
		}
	}

	conn.push(outboundMessage{Type: "state", Payload: session.View()})
	for {
		select {
		case <-tickC:
			apply(session.Tick(ctx, timer))
		case in, ok := <-events:
			if !ok {
				return
			}
			msg, ok := h.handle(ctx, session, in, apply)
			if msg.Type != "" {
				conn.push(msg)
			}
			if !ok {
				continue
			}
		case <-conn.writerDone:
			return
		}
		if !conn.push(outboundMessage{Type: "state", Payload: session.View()}) {
			return
		}
	}
}

// handle applies one client message. It returns a message to send before the
// state update, and false when the message was rejected.
func (h *WSHandler) handle(ctx context.Context, session *app.Session, in inboundMessage, apply func([]app.Intent)) (outboundMessage, bool) {
	switch in.Type {
	case "start":
		apply(session.Start(ctx))
	case "key":
		var p keyPayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return errorMessage("invalid key payload"), false
		}
		for _, r := range p.Char {
			session.Type(r)
		}
	case "backspace":
		session.Backspace()
	case "submit":
		var p submitPayload
		if len(in.Payload) > 0 {
			if err := json.Unmarshal(in.Payload, &p); err != nil {
				return errorMessage("invalid submit payload"), false
			}
		}
		apply(session.Submit(ctx, p.Text))
	case "replay":
		apply(session.Replay(ctx))
	case "practice":
		if !session.NewPracticeSession() {
			return errorMessage("new practice session unavailable"), false
		}
	case "share":
		summary, outcome, ok := session.Share(ctx)
		if !ok {
			return errorMessage("share is available once the session is finished"), false
		}
		return outboundMessage{Type: "share", Payload: sharePayload{Text: summary.Text(), Outcome: outcome, Summary: summary}}, true
	default:
		return errorMessage("unsupported message type"), false
	}
	return outboundMessage{}, true
}

func errorMessage(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg}}
}
