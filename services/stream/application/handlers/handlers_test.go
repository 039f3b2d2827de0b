package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/config"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
)

const (
	testIssuer   = "https://issuer.test/"
	testAudience = "jobdesk-test"
	testKid      = "stream-key-1"
)

type streamFixture struct {
	srv   *httptest.Server
	bus   *notifier.Notifier
	token string
}

// newStreamFixture stands up a JWKS server, a verifier against it, a live
// notifier, and an httptest server exposing the stream handler.
func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	jwksDoc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKid,
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	jwksSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwksDoc)
	}))
	t.Cleanup(jwksSrv.Close)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok.Header["kid"] = testKid
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	log := logger.New(&config.Config{LogLevel: "error"})
	bus := notifier.New(log)
	t.Cleanup(func() { _ = bus.Close() })

	verifier := auth.NewVerifier(jwksSrv.URL, testIssuer, testAudience, nil)
	h := NewStreamHandler(verifier, bus, log, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Serve)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &streamFixture{srv: srv, bus: bus, token: signed}
}

func (f *streamFixture) dial(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, f.srv.URL+"/ws?authorization="+url.QueryEscape("Bearer "+f.token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) serverMessage {
	t.Helper()
	var msg serverMessage
	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := wsjson.Read(readCtx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// TestStream_RejectsUnauthenticated verifies the connection is refused with
// 401 before any upgrade when no credential is presented.
func TestStream_RejectsUnauthenticated(t *testing.T) {
	f := newStreamFixture(t)

	resp, err := http.Get(f.srv.URL + "/ws")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

// TestStream_RejectsBadToken verifies a garbage token refuses the upgrade.
func TestStream_RejectsBadToken(t *testing.T) {
	f := newStreamFixture(t)

	resp, err := http.Get(f.srv.URL + "/ws?authorization=not-a-token")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

// TestStream_ReadyAfterConnect verifies the server's first frame is ready.
func TestStream_ReadyAfterConnect(t *testing.T) {
	f := newStreamFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := f.dial(t, ctx)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck

	if msg := readMessage(t, ctx, conn); msg.Type != "ready" {
		t.Errorf("expected ready frame, got %+v", msg)
	}
}

// TestStream_SubscribeReceivesEvents verifies a subscription relays events
// published on its topic, tagged with the subscription id and wire topic.
func TestStream_SubscribeReceivesEvents(t *testing.T) {
	f := newStreamFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := f.dial(t, ctx)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	readMessage(t, ctx, conn) // ready

	if err := wsjson.Write(ctx, conn, clientMessage{Type: "subscribe", ID: "sub-1", Topic: "job-added"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Let the subscription attach before publishing; events published with
	// no consumer attached are dropped.
	time.Sleep(100 * time.Millisecond)

	if err := f.bus.Publish(ctx, notifier.TopicJobAdded, map[string]string{"reference": "J-100"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg := readMessage(t, ctx, conn)
	if msg.Type != "event" || msg.ID != "sub-1" || msg.Topic != "job-added" {
		t.Fatalf("unexpected frame: %+v", msg)
	}
	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["reference"] != "J-100" {
		t.Errorf("expected reference J-100, got %q", payload["reference"])
	}
}

// TestStream_UnknownTopic verifies an unknown topic yields an error frame and
// the connection stays usable.
func TestStream_UnknownTopic(t *testing.T) {
	f := newStreamFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := f.dial(t, ctx)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	readMessage(t, ctx, conn) // ready

	if err := wsjson.Write(ctx, conn, clientMessage{Type: "subscribe", ID: "sub-1", Topic: "job-exploded"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != "error" {
		t.Fatalf("expected error frame, got %+v", msg)
	}

	// Connection still accepts a valid subscription afterwards.
	if err := wsjson.Write(ctx, conn, clientMessage{Type: "subscribe", ID: "sub-2", Topic: "item-added"}); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := f.bus.Publish(ctx, notifier.TopicItemAdded, map[string]string{"name": "Bolt"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != "event" || msg.ID != "sub-2" {
		t.Fatalf("expected event on sub-2, got %+v", msg)
	}
}

// TestStream_Unsubscribe verifies a closed subscription stops relaying.
func TestStream_Unsubscribe(t *testing.T) {
	f := newStreamFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := f.dial(t, ctx)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	readMessage(t, ctx, conn) // ready

	if err := wsjson.Write(ctx, conn, clientMessage{Type: "subscribe", ID: "sub-1", Topic: "contact-added"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := wsjson.Write(ctx, conn, clientMessage{Type: "unsubscribe", ID: "sub-1"}); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := f.bus.Publish(ctx, notifier.TopicContactAdded, map[string]string{"account": "acme"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	readCtx, cancelRead := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancelRead()
	var msg serverMessage
	if err := wsjson.Read(readCtx, conn, &msg); err == nil {
		t.Fatalf("expected no frame after unsubscribe, got %+v", msg)
	}
}
