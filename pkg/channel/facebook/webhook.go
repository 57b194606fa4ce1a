package facebook

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"pagebridge/pkg/bus"
)

// DispatchEvent populates msg from one raw messaging event. Extraction is
// best effort: each recognized top-level key (message, read, referral) is
// processed independently when present, and absent or malformed optional
// fields simply leave their target unset. The function never fails.
func DispatchEvent(raw []byte, msg *bus.InboundMessage) {
	if msg == nil {
		return
	}

	if gjson.GetBytes(raw, "message").Exists() {
		extractMessage(raw, msg)
	}
	if gjson.GetBytes(raw, "read").Exists() {
		extractRead(raw, msg)
	}
	if referral := gjson.GetBytes(raw, "referral"); referral.Exists() {
		msg.Referral = json.RawMessage(referral.Raw)
	}
}

func extractMessage(raw []byte, msg *bus.InboundMessage) {
	if quickReply := gjson.GetBytes(raw, "message.quick_reply.payload"); quickReply.Exists() {
		msg.Text = gjson.GetBytes(raw, "message.text").String()
		msg.Payload = quickReply.String()
	} else if text := gjson.GetBytes(raw, "message.text"); text.String() != "" {
		msg.Text = text.String()
	}

	attachments := gjson.GetBytes(raw, "message.attachments")
	if attachments.IsArray() {
		attachments.ForEach(func(_, attachment gjson.Result) bool {
			if attachment.Get("type").String() == "location" {
				msg.Location = &bus.Location{
					Lat: attachment.Get("payload.coordinates.lat").Float(),
					Lng: attachment.Get("payload.coordinates.long").Float(),
				}
			}

			// Fallback attachments carry their URL at the attachment level
			// instead of inside the payload, contrary to the documented
			// webhook schema.
			url := attachment.Get("payload.url")
			if !url.Exists() {
				url = attachment.Get("url")
			}

			msg.Attachments = append(msg.Attachments, bus.Attachment{
				Type: attachment.Get("type").String(),
				URL:  url.String(),
			})
			return true
		})
	}

	if nlp := gjson.GetBytes(raw, "message.nlp"); nlp.Exists() {
		msg.NLP = json.RawMessage(nlp.Raw)
	}
}

func extractRead(raw []byte, msg *bus.InboundMessage) {
	// Watermarks arrive as epoch milliseconds; second precision is kept.
	watermark := gjson.GetBytes(raw, "read.watermark").Int() / 1000
	msg.Read = &bus.ReadReceipt{
		Watermark: time.Unix(watermark, 0).UTC(),
		Seq:       gjson.GetBytes(raw, "read.seq").Int(),
	}
}
