package facebook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pagebridge/pkg/bus"
	"pagebridge/pkg/config"
)

type graphRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (g *graphRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.bodies = append(g.bodies, string(body))
		g.mu.Unlock()
		w.Write([]byte(`{"message_id":"mid.1"}`))
	}
}

func (g *graphRecorder) sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.bodies...)
}

func newTestAdapter(t *testing.T, allowFrom []string) (*Adapter, *graphRecorder) {
	t.Helper()

	recorder := &graphRecorder{}
	server := httptest.NewServer(recorder.handler())
	t.Cleanup(server.Close)

	adapter, err := NewAdapter(config.FacebookConfig{
		PageAccessToken: "token",
		VerifyToken:     "secret",
		AllowFrom:       allowFrom,
	}, nil)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	adapter.client.base = server.URL

	return adapter, recorder
}

func noReplies(_ context.Context, _ bus.InboundMessage) ([]bus.Reply, error) {
	return nil, nil
}

func TestAdapterRequiresCredentials(t *testing.T) {
	if _, err := NewAdapter(config.FacebookConfig{VerifyToken: "v"}, nil); err == nil {
		t.Fatal("expected error without page access token")
	}
	if _, err := NewAdapter(config.FacebookConfig{PageAccessToken: "t"}, nil); err == nil {
		t.Fatal("expected error without verify token")
	}
}

func TestWebhookVerifyCorrectToken(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=mychallenge", nil)
	w := httptest.NewRecorder()
	adapter.handleWebhook(context.Background(), w, req, noReplies)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "mychallenge" {
		t.Fatalf("expected challenge echo, got %q", body)
	}
}

func TestWebhookVerifyWrongToken(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=x", nil)
	w := httptest.NewRecorder()
	adapter.handleWebhook(context.Background(), w, req, noReplies)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestWebhookIncomingMessage(t *testing.T) {
	adapter, recorder := newTestAdapter(t, nil)

	var (
		mu      sync.Mutex
		inbound []bus.InboundMessage
	)
	handler := func(_ context.Context, msg bus.InboundMessage) ([]bus.Reply, error) {
		mu.Lock()
		inbound = append(inbound, msg)
		mu.Unlock()
		return []bus.Reply{{Kind: bus.ReplyText, Text: "hello back"}}, nil
	}

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"messaging": [{
				"sender": {"id": "user-9"},
				"recipient": {"id": "page-1"},
				"message": {"text": "hello"}
			}]
		}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	w := httptest.NewRecorder()
	adapter.handleWebhook(context.Background(), w, req, handler)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "EVENT_RECEIVED" {
		t.Fatalf("expected EVENT_RECEIVED ack, got %q", body)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(inbound) != 1 {
		t.Fatalf("handler invocations = %d, want 1", len(inbound))
	}
	if inbound[0].Text != "hello" || inbound[0].SenderID != "user-9" {
		t.Fatalf("inbound = %+v", inbound[0])
	}
	if inbound[0].SessionKey != "facebook:user-9" {
		t.Fatalf("session_key = %q", inbound[0].SessionKey)
	}

	// One mark_seen action plus the translated reply.
	sent := recorder.sent()
	if len(sent) != 2 {
		t.Fatalf("graph calls = %d, want 2", len(sent))
	}
	if !strings.Contains(sent[0], `"sender_action":"mark_seen"`) {
		t.Fatalf("first call = %s, want mark_seen action", sent[0])
	}
	if !strings.Contains(sent[1], `"text":"hello back"`) {
		t.Fatalf("second call = %s, want reply text", sent[1])
	}
}

func TestWebhookDisallowedSender(t *testing.T) {
	adapter, recorder := newTestAdapter(t, []string{"friend-1"})

	invoked := false
	handler := func(_ context.Context, _ bus.InboundMessage) ([]bus.Reply, error) {
		invoked = true
		return nil, nil
	}

	payload := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"stranger"},"message":{"text":"hi"}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	w := httptest.NewRecorder()
	adapter.handleWebhook(context.Background(), w, req, handler)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if invoked {
		t.Fatal("handler must not run for disallowed senders")
	}
	if len(recorder.sent()) != 0 {
		t.Fatal("no graph calls expected for disallowed senders")
	}
}

func TestWebhookIgnoresNonPageObjects(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	invoked := false
	handler := func(_ context.Context, _ bus.InboundMessage) ([]bus.Reply, error) {
		invoked = true
		return nil, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"instagram","entry":[]}`))
	w := httptest.NewRecorder()
	adapter.handleWebhook(context.Background(), w, req, handler)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if invoked {
		t.Fatal("handler must not run for non-page objects")
	}
}

func TestWebhookReadReceiptSkipsMarkSeen(t *testing.T) {
	adapter, recorder := newTestAdapter(t, nil)

	payload := `{"object":"page","entry":[{"messaging":[{"sender":{"id":"user-9"},"read":{"watermark":1000000,"seq":3}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	w := httptest.NewRecorder()

	var got *bus.ReadReceipt
	adapter.handleWebhook(context.Background(), w, req, func(_ context.Context, msg bus.InboundMessage) ([]bus.Reply, error) {
		got = msg.Read
		return nil, nil
	})

	if got == nil || got.Seq != 3 {
		t.Fatalf("read receipt = %+v", got)
	}
	if len(recorder.sent()) != 0 {
		t.Fatal("read receipts must not trigger sender actions")
	}
}

func TestSenderAllowed(t *testing.T) {
	adapter := &Adapter{allowFrom: map[string]struct{}{"1": {}}}
	if !adapter.senderAllowed("1") {
		t.Fatal("expected sender 1 to be allowed")
	}
	if adapter.senderAllowed("2") {
		t.Fatal("expected sender 2 to be denied")
	}

	adapter.allowFrom = nil
	if !adapter.senderAllowed("any") {
		t.Fatal("expected sender to be allowed when allowlist empty")
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText(" hello "); got != "hello" {
		t.Fatalf("previewText = %q, want %q", got, "hello")
	}

	long := strings.Repeat("a", messagePreviewLimit+20)
	got := previewText(long)
	if len(got) != messagePreviewLimit+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("previewText long = %q", got)
	}
}
