// Package bus defines the normalized message model shared between channel
// adapters and the conversation engine. Inbound webhook events are reduced to
// an InboundMessage; the engine answers with Reply values that adapters
// translate back into platform wire formats.
package bus

import (
	"encoding/json"
	"time"
)

// Location is a geographic point shared through a location attachment.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Attachment is one inbound media or rich attachment, in arrival order.
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// ReadReceipt reports how far the recipient has read into the conversation.
type ReadReceipt struct {
	Watermark time.Time `json:"watermark"`
	Seq       int64     `json:"seq"`
}

// InboundMessage is the normalized representation of one inbound platform
// event, independent of the wire format. A fresh value is populated by the
// adapter's event dispatch and then handed to the conversation engine;
// fields only set by one event kind stay zero for every other kind.
type InboundMessage struct {
	Channel     string          `json:"channel"`
	SenderID    string          `json:"sender_id"`
	SessionKey  string          `json:"session_key,omitempty"`
	Text        string          `json:"text,omitempty"`
	Payload     string          `json:"payload,omitempty"`
	Location    *Location       `json:"location,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	NLP         json.RawMessage `json:"nlp,omitempty"`
	Read        *ReadReceipt    `json:"read,omitempty"`
	Referral    json.RawMessage `json:"referral,omitempty"`
}
