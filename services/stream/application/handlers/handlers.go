package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/httpx"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
)

const writeTimeout = 5 * time.Second

// wireTopics maps the topic names clients subscribe with to bus topics.
var wireTopics = map[string]string{
	"contact-added":   notifier.TopicContactAdded,
	"contact-updated": notifier.TopicContactUpdated,
	"contact-deleted": notifier.TopicContactDeleted,
	"item-added":      notifier.TopicItemAdded,
	"item-updated":    notifier.TopicItemUpdated,
	"item-deleted":    notifier.TopicItemDeleted,
	"job-added":       notifier.TopicJobAdded,
	"job-updated":     notifier.TopicJobUpdated,
	"job-deleted":     notifier.TopicJobDeleted,
}

// clientMessage is what a connected client sends: subscribe opens a named
// subscription on a topic, unsubscribe closes it by id.
type clientMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Topic string `json:"topic,omitempty"`
}

// serverMessage is everything the server pushes: the ready frame, per
// subscription events, and protocol errors.
type serverMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// StreamHandler serves the WebSocket endpoint that fans change notifications
// out to connected clients. One instance handles all connections; each
// connection authenticates once, then multiplexes any number of named topic
// subscriptions.
type StreamHandler struct {
	verifier *auth.Verifier
	bus      *notifier.Notifier
	log      logger.Logger
	origins  []string
}

// NewStreamHandler returns a StreamHandler. originPatterns is passed to the
// WebSocket accept check; empty means same-origin only.
func NewStreamHandler(verifier *auth.Verifier, bus *notifier.Notifier, log logger.Logger, originPatterns []string) *StreamHandler {
	return &StreamHandler{verifier: verifier, bus: bus, log: log, origins: originPatterns}
}

// Serve handles GET /ws. The bearer token comes from the Authorization
// header or, for browser clients that cannot set headers on an upgrade
// request, an authorization query parameter. A missing or invalid token
// refuses the connection with 401 before the upgrade; no subscription is
// possible on an unauthenticated connection.
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	identity, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	opts := &websocket.AcceptOptions{}
	if len(h.origins) > 0 {
		opts.OriginPatterns = h.origins
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.log.InfoContext(ctx, "stream connected", "subject", identity.Subject)
	defer h.log.InfoContext(ctx, "stream disconnected", "subject", identity.Subject)

	// All frames leave through out so one goroutine owns writes. Cancelling
	// ctx stops the writer and every subscription relay.
	out := make(chan serverMessage, 32)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-out:
				writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
				err := wsjson.Write(writeCtx, conn, msg)
				cancelWrite()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	h.send(ctx, out, serverMessage{Type: "ready"})

	// cancels per subscription id; touched only by this read loop.
	subs := make(map[string]context.CancelFunc)
	defer func() {
		for _, stop := range subs {
			stop()
		}
	}()

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		}

		switch msg.Type {
		case "subscribe":
			busTopic, ok := wireTopics[msg.Topic]
			if !ok {
				h.send(ctx, out, serverMessage{Type: "error", ID: msg.ID, Error: "unknown topic: " + msg.Topic})
				continue
			}
			if _, exists := subs[msg.ID]; exists {
				h.send(ctx, out, serverMessage{Type: "error", ID: msg.ID, Error: "subscription id already in use"})
				continue
			}

			subCtx, stop := context.WithCancel(ctx)
			events, err := h.bus.Subscribe(subCtx, busTopic)
			if err != nil {
				stop()
				h.send(ctx, out, serverMessage{Type: "error", ID: msg.ID, Error: "subscribe failed"})
				continue
			}
			subs[msg.ID] = stop

			go h.relay(ctx, out, msg.ID, msg.Topic, events)

		case "unsubscribe":
			if stop, ok := subs[msg.ID]; ok {
				stop()
				delete(subs, msg.ID)
			}

		default:
			h.send(ctx, out, serverMessage{Type: "error", ID: msg.ID, Error: "unknown message type: " + msg.Type})
		}
	}
}

// relay forwards one subscription's events into the connection's outgoing
// channel, preserving the per-topic publish order. It exits when the
// subscription's channel closes, which the notifier does on ctx cancel.
func (h *StreamHandler) relay(ctx context.Context, out chan<- serverMessage, id, topic string, events <-chan notifier.Event) {
	for evt := range events {
		select {
		case out <- serverMessage{Type: "event", ID: id, Topic: topic, Payload: evt.Payload}:
		case <-ctx.Done():
			return
		}
	}
}

func (h *StreamHandler) send(ctx context.Context, out chan<- serverMessage, msg serverMessage) {
	select {
	case out <- msg:
	case <-ctx.Done():
	}
}
