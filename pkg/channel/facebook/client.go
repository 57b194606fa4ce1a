package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pagebridge/pkg/config"
)

const (
	defaultGraphBase = "https://graph.facebook.com"

	connectTimeout = 15 * time.Second
	requestTimeout = 60 * time.Second

	bodyPreviewLimit = 512
)

// classification rules evaluated top to bottom against 4xx response bodies.
// The markers are Graph API send error codes and are coupled to the vendor
// wire format; they must track
// https://developers.facebook.com/docs/messenger-platform/reference/send-api/error-codes
var sendErrorRules = []struct {
	marker   string
	category string
	detail   string
}{
	{"#551", ErrorUserOptOut, "this person isn't available right now"},
	{"1545041", ErrorUserOptOut, "this person isn't receiving messages from this page right now"},
	{"2018001", ErrorInvalidSession, invalidSessionDetail},
}

const invalidSessionDetail = "no messaging session exists for this recipient; " +
	"the app may be barred from messaging this person until it passes pages_messaging review"

// Response is the raw platform outcome of one call, consumed immediately by
// the caller; it is never persisted.
type Response struct {
	Status int
	Body   string
}

// Client transmits translated bodies to the Graph API. It is safe for
// concurrent use; every call is a single HTTP round trip with fixed
// timeouts and no retries.
type Client struct {
	cfg  config.FacebookConfig
	base string
	http *http.Client
	log  *slog.Logger
}

// NewClient builds a Graph API client from page credentials.
func NewClient(cfg config.FacebookConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = config.DefaultAPIVersion
	}

	return &Client{
		cfg:  cfg,
		base: defaultGraphBase,
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		log: log.With("component", "channel.facebook", "topic", "facebook"),
	}
}

// Send transmits one translated reply body to the me/messages endpoint and
// classifies the platform outcome.
func (c *Client) Send(ctx context.Context, body *SendRequest) (*Response, error) {
	return c.transmit(ctx, "messages", body)
}

// SetProfile pushes the messenger profile built by BuildProfile to the
// thread-settings endpoint.
func (c *Client) SetProfile(ctx context.Context, profile map[string]any) (*Response, error) {
	return c.transmit(ctx, "messenger_thread_settings", profile)
}

func (c *Client) transmit(ctx context.Context, endpoint string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	target := fmt.Sprintf("%s/v%s/me/%s?access_token=%s",
		c.base, c.cfg.APIVersion, endpoint, url.QueryEscape(c.cfg.PageAccessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "Transmitting to "+endpoint)
	if err != nil {
		return nil, err
	}

	if err := classifySend(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// FetchProfile retrieves a user profile by page-scoped id. A nil fields
// slice requests the standard profile fields.
func (c *Client) FetchProfile(ctx context.Context, recipientID string, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		fields = []string{"id", "name", "first_name", "last_name", "profile_pic"}
	}

	query := url.Values{}
	query.Set("fields", strings.Join(fields, ","))
	query.Set("access_token", c.cfg.PageAccessToken)
	target := fmt.Sprintf("%s/%s?%s", c.base, url.PathEscape(recipientID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.do(req, "Requested user profile for "+recipientID)
	if err != nil {
		return nil, err
	}

	return decodeGraphResponse(resp)
}

// Track reports one custom app event against the configured app id.
func (c *Client) Track(ctx context.Context, recipientID, metric string, value float64, options map[string]any) (map[string]any, error) {
	event := map[string]any{
		"_eventName":  metric,
		"_valueToSum": value,
	}
	for key, option := range options {
		event[key] = option
	}

	customEvents, err := json.Marshal([]map[string]any{event})
	if err != nil {
		return nil, fmt.Errorf("encode custom events: %w", err)
	}

	form := url.Values{}
	form.Set("event", "CUSTOM_APP_EVENTS")
	form.Set("custom_events", string(customEvents))
	form.Set("advertiser_tracking_enabled", "1")
	form.Set("application_tracking_enabled", "1")
	form.Set("extinfo", `["mb1"]`)
	form.Set("page_scoped_user_id", recipientID)
	form.Set("page_id", c.cfg.PageID)

	target := fmt.Sprintf("%s/%s/activities?access_token=%s",
		c.base, url.PathEscape(c.cfg.AppID), url.QueryEscape(c.cfg.PageAccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req, fmt.Sprintf("Sending custom event for metric %s value %v", metric, value))
	if err != nil {
		return nil, err
	}

	return decodeGraphResponse(resp)
}

// do performs the round trip and emits the single structured log record
// every call produces, success or failure.
func (c *Client) do(req *http.Request, summary string) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(summary, "error", err)
		return nil, fmt.Errorf("facebook request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.log.Info(summary, "status", resp.StatusCode, "body", previewBody(string(body)))

	return &Response{Status: resp.StatusCode, Body: string(body)}, nil
}

func classifySend(resp *Response) error {
	switch {
	case resp.Status >= 200 && resp.Status <= 299:
		return nil
	case resp.Status >= 400 && resp.Status <= 499:
		for _, rule := range sendErrorRules {
			if strings.Contains(resp.Body, rule.marker) {
				return &Error{Category: rule.category, Detail: rule.detail, Status: resp.Status, Body: resp.Body}
			}
		}
	}

	return &Error{
		Category: ErrorService,
		Detail:   fmt.Sprintf("facebook error %d: %s", resp.Status, resp.Body),
		Status:   resp.Status,
		Body:     resp.Body,
	}
}

func decodeGraphResponse(resp *Response) (map[string]any, error) {
	if resp.Status < 200 || resp.Status > 299 {
		return nil, &Error{
			Category: ErrorService,
			Detail:   fmt.Sprintf("facebook error %d: %s", resp.Status, resp.Body),
			Status:   resp.Status,
			Body:     resp.Body,
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &decoded); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	return decoded, nil
}

func previewBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) <= bodyPreviewLimit {
		return trimmed
	}

	return trimmed[:bodyPreviewLimit] + "..."
}
