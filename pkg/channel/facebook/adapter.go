package facebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"pagebridge/pkg/bus"
	"pagebridge/pkg/channel"
	"pagebridge/pkg/config"
)

const channelName = "facebook"
const messagePreviewLimit = 240

const (
	defaultWebhookHost = "0.0.0.0"
	defaultWebhookPort = 9007
)

// Adapter serves the Messenger webhook and bridges events into the
// normalized message model.
type Adapter struct {
	cfg       config.FacebookConfig
	client    *Client
	allowFrom map[string]struct{}
	log       *slog.Logger

	mu        sync.RWMutex
	startedAt time.Time
}

// NewAdapter validates Facebook configuration and constructs an adapter.
func NewAdapter(cfg config.FacebookConfig, log *slog.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.PageAccessToken) == "" {
		return nil, errors.New("facebook.page_access_token is required")
	}
	if strings.TrimSpace(cfg.VerifyToken) == "" {
		return nil, errors.New("facebook.verify_token is required")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		cfg:       cfg,
		client:    NewClient(cfg, log),
		allowFrom: allowFromSet(cfg.AllowFrom),
		log:       log.With("component", "channel.facebook"),
	}, nil
}

// Name returns the channel identifier used in bus metadata and logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run serves the webhook endpoint until ctx is canceled. Every received
// messaging event is dispatched into a fresh InboundMessage, handed to the
// handler, and the handler's replies are translated and transmitted back.
func (a *Adapter) Run(ctx context.Context, handler channel.Handler) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	a.mu.Lock()
	a.startedAt = time.Now().UTC()
	a.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		a.handleWebhook(ctx, w, r, handler)
	})
	mux.HandleFunc("/healthz", a.handleHealth)

	host := strings.TrimSpace(a.cfg.Webhook.Host)
	if host == "" {
		host = defaultWebhookHost
	}
	port := a.cfg.Webhook.Port
	if port <= 0 {
		port = defaultWebhookPort
	}

	server := &http.Server{
		Addr:              host + ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	a.log.Info("Facebook channel started", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve webhook: %w", err)
	}

	return nil
}

func (a *Adapter) handleWebhook(ctx context.Context, w http.ResponseWriter, r *http.Request, handler channel.Handler) {
	// GET is the platform's subscription handshake.
	if r.Method == http.MethodGet {
		query := r.URL.Query()
		if query.Get("hub.mode") == "subscribe" && query.Get("hub.verify_token") == a.cfg.VerifyToken {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, query.Get("hub.challenge"))
			return
		}

		w.WriteHeader(http.StatusForbidden)
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	if gjson.GetBytes(data, "object").String() != "page" {
		w.WriteHeader(http.StatusOK)
		return
	}

	gjson.GetBytes(data, "entry").ForEach(func(_, entry gjson.Result) bool {
		entry.Get("messaging").ForEach(func(_, event gjson.Result) bool {
			a.processEvent(ctx, []byte(event.Raw), handler)
			return true
		})
		return true
	})

	// The platform retries deliveries that are not acknowledged promptly,
	// so the webhook always answers 200 once the envelope is read.
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "EVENT_RECEIVED")
}

func (a *Adapter) processEvent(ctx context.Context, event []byte, handler channel.Handler) {
	senderID := gjson.GetBytes(event, "sender.id").String()
	if senderID == "" {
		a.log.Debug("Ignoring event without sender")
		return
	}
	if !a.senderAllowed(senderID) {
		a.log.Debug("Ignoring event from unauthorized sender", "sender_id", senderID)
		return
	}

	inbound := bus.InboundMessage{
		Channel:    channelName,
		SenderID:   senderID,
		SessionKey: sessionKey(senderID),
	}
	DispatchEvent(event, &inbound)

	a.log.Info("Received event", "sender_id", senderID, "session_key", inbound.SessionKey, "text", previewText(inbound.Text))

	// Read receipts and referrals carry no composable response; mark the
	// conversation as seen only for real messages.
	if inbound.Text != "" || len(inbound.Attachments) > 0 {
		a.sendAction(ctx, senderID, bus.ReplyMarkSeen)
	}

	replies, err := handler(ctx, inbound)
	if err != nil {
		a.log.Error("Failed to process inbound event", "error", err)
		return
	}

	for _, reply := range replies {
		body, err := Translate(reply, senderID)
		if err != nil {
			a.log.Error("Failed to translate reply", "kind", string(reply.Kind), "error", err)
			continue
		}
		if _, err := a.client.Send(ctx, body); err != nil {
			a.log.Error("Failed to send reply", "kind", string(reply.Kind), "error", err)
		}
	}
}

func (a *Adapter) sendAction(ctx context.Context, recipientID string, kind bus.ReplyKind) {
	body, err := Translate(bus.Reply{Kind: kind}, recipientID)
	if err != nil {
		return
	}
	if _, err := a.client.Send(ctx, body); err != nil {
		a.log.Debug("Failed to send sender action", "action", string(kind), "error", err)
	}
}

func (a *Adapter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.mu.RLock()
	startedAt := a.startedAt
	a.mu.RUnlock()

	uptime := int64(0)
	if !startedAt.IsZero() {
		uptime = int64(time.Since(startedAt).Seconds())
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","channel":%q,"uptime_seconds":%d}`, channelName, uptime)
}

// senderAllowed checks whether a sender is permitted by allow_from config.
//
// When no allow list is configured, all senders are accepted.
func (a *Adapter) senderAllowed(senderID string) bool {
	if len(a.allowFrom) == 0 {
		return true
	}

	_, ok := a.allowFrom[strings.TrimSpace(senderID)]
	return ok
}

// sessionKey maps one page-scoped sender to one runtime session namespace.
func sessionKey(senderID string) string {
	return "facebook:" + strings.TrimSpace(senderID)
}

// allowFromSet normalizes allow_from values into a lookup set.
func allowFromSet(allowFrom []string) map[string]struct{} {
	if len(allowFrom) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowFrom))
	for _, value := range allowFrom {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}

	if len(allowed) == 0 {
		return nil
	}

	return allowed
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}
