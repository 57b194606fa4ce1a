package bus

// ReplyKind selects which variant of a Reply is populated.
type ReplyKind string

const (
	ReplyText      ReplyKind = "text"
	ReplyImage     ReplyKind = "image"
	ReplyAudio     ReplyKind = "audio"
	ReplyVideo     ReplyKind = "video"
	ReplyFile      ReplyKind = "file"
	ReplyCards     ReplyKind = "cards"
	ReplyList      ReplyKind = "list"
	ReplyMarkSeen  ReplyKind = "mark_seen"
	ReplyTypingOn  ReplyKind = "typing_on"
	ReplyTypingOff ReplyKind = "typing_off"

	// ReplyDelay is an alias the conversation engine uses while it is
	// composing; adapters render it as the typing indicator.
	ReplyDelay ReplyKind = "delay"
)

// Reply is one outbound response described independently of any platform.
// Only the fields relevant to Kind are consulted. Suggestions and Buttons
// are mutually exclusive; adapters reject replies carrying both.
type Reply struct {
	Kind ReplyKind `json:"kind" yaml:"kind"`

	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	AudioURL string `json:"audio_url,omitempty" yaml:"audio_url,omitempty"`
	VideoURL string `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	FileURL  string `json:"file_url,omitempty" yaml:"file_url,omitempty"`

	Suggestions []Suggestion  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Buttons     []Button      `json:"buttons,omitempty" yaml:"buttons,omitempty"`
	Elements    []CardElement `json:"elements,omitempty" yaml:"elements,omitempty"`

	Sharable        bool   `json:"sharable,omitempty" yaml:"sharable,omitempty"`
	AspectRatio     string `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
	TopElementStyle string `json:"top_element_style,omitempty" yaml:"top_element_style,omitempty"`
}

// Suggestion is a quick-reply choice presented alongside a text message.
// Type "text" (the default) carries display text and an optional payload;
// "location", "phone" and "email" ask the platform to collect that datum.
type Suggestion struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Payload  string `json:"payload,omitempty" yaml:"payload,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Button variants understood by adapters.
const (
	ButtonURL     = "url"
	ButtonPayload = "payload"
	ButtonCall    = "call"
	ButtonLogin   = "login"
	ButtonLogout  = "logout"
	ButtonNested  = "nested"
)

// Button is one call-to-action attached to a message, card or menu.
// Nested buttons carry their own Buttons slice.
type Button struct {
	Type                string   `json:"type" yaml:"type"`
	Text                string   `json:"text,omitempty" yaml:"text,omitempty"`
	URL                 string   `json:"url,omitempty" yaml:"url,omitempty"`
	Payload             string   `json:"payload,omitempty" yaml:"payload,omitempty"`
	PhoneNumber         string   `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	WebviewHeight       string   `json:"webview_height,omitempty" yaml:"webview_height,omitempty"`
	MessengerExtensions bool     `json:"messenger_extensions,omitempty" yaml:"messenger_extensions,omitempty"`
	Buttons             []Button `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// DefaultAction is the tap target of a whole card element.
type DefaultAction struct {
	URL           string `json:"url" yaml:"url"`
	WebviewHeight string `json:"webview_height,omitempty" yaml:"webview_height,omitempty"`
}

// CardElement is one entry of a cards or list reply. Title is required.
type CardElement struct {
	Title         string         `json:"title" yaml:"title"`
	Subtitle      string         `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ImageURL      string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	DefaultAction *DefaultAction `json:"default_action,omitempty" yaml:"default_action,omitempty"`
	Buttons       []Button       `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}
