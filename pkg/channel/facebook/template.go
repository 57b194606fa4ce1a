package facebook

// Send API request shapes.
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/send-api

// Recipient addresses a page-scoped user.
type Recipient struct {
	ID string `json:"id"`
}

// SendRequest is the top-level body POSTed to me/messages. Exactly one of
// Message or SenderAction is set.
type SendRequest struct {
	Recipient    Recipient `json:"recipient"`
	Message      *Message  `json:"message,omitempty"`
	SenderAction string    `json:"sender_action,omitempty"`
}

// Message carries either plain text or an attachment, optionally with
// quick replies. Text and a template attachment never coexist.
type Message struct {
	Text         string       `json:"text,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// Attachment wraps media (image/audio/video/file) or a structured template.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload is the union of media and template payload fields; the
// omitempty tags keep each wire shape clean.
type AttachmentPayload struct {
	URL              string         `json:"url,omitempty"`
	TemplateType     string         `json:"template_type,omitempty"`
	Text             string         `json:"text,omitempty"`
	Sharable         bool           `json:"sharable,omitempty"`
	ImageAspectRatio string         `json:"image_aspect_ratio,omitempty"`
	TopElementStyle  string         `json:"top_element_style,omitempty"`
	Elements         []Element      `json:"elements,omitempty"`
	Buttons          []CallToAction `json:"buttons,omitempty"`
}

// QuickReply is one rendered suggestion chip.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Element is one card of a generic or list template.
type Element struct {
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	DefaultAction *CallToAction  `json:"default_action,omitempty"`
	Buttons       []CallToAction `json:"buttons,omitempty"`
}

// CallToAction is a rendered button. Nested menus recurse through
// CallToActions.
type CallToAction struct {
	Type                string         `json:"type"`
	Title               string         `json:"title,omitempty"`
	URL                 string         `json:"url,omitempty"`
	Payload             string         `json:"payload,omitempty"`
	WebviewHeightRatio  string         `json:"webview_height_ratio,omitempty"`
	MessengerExtensions bool           `json:"messenger_extensions,omitempty"`
	CallToActions       []CallToAction `json:"call_to_actions,omitempty"`
}

// GreetingLocale is one localized greeting in the messenger profile body.
type GreetingLocale struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

// MenuLocale is one localized persistent menu in the messenger profile body.
type MenuLocale struct {
	Locale                string         `json:"locale"`
	ComposerInputDisabled bool           `json:"composer_input_disabled"`
	CallToActions         []CallToAction `json:"call_to_actions"`
}
