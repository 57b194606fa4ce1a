package facebook

import (
	"fmt"
	"strings"

	"pagebridge/pkg/bus"
)

const (
	maxCardElements    = 10
	minListElements    = 2
	maxListElements    = 4
	maxCardButtons     = 3
	maxListItemButtons = 1
)

// Translate converts one normalized reply into the Send API body addressed
// to recipientID. Structural limits are enforced here, before any network
// call; callers receive ErrorValidation or ErrorUnsupportedFeature failures
// synchronously.
func Translate(reply bus.Reply, recipientID string) (*SendRequest, error) {
	switch reply.Kind {
	case bus.ReplyText:
		return translateText(reply, recipientID)
	case bus.ReplyImage:
		return translateMedia(reply, recipientID, "image", reply.ImageURL)
	case bus.ReplyAudio:
		return translateMedia(reply, recipientID, "audio", reply.AudioURL)
	case bus.ReplyVideo:
		return translateMedia(reply, recipientID, "video", reply.VideoURL)
	case bus.ReplyFile:
		return translateMedia(reply, recipientID, "file", reply.FileURL)
	case bus.ReplyCards:
		return translateCards(reply, recipientID)
	case bus.ReplyList:
		return translateList(reply, recipientID)
	case bus.ReplyMarkSeen:
		return senderAction(recipientID, "mark_seen"), nil
	case bus.ReplyTypingOn, bus.ReplyDelay:
		return senderAction(recipientID, "typing_on"), nil
	case bus.ReplyTypingOff:
		return senderAction(recipientID, "typing_off"), nil
	default:
		return nil, NewError(ErrorUnsupportedFeature, fmt.Sprintf("reply kind %q is not supported on Messenger", reply.Kind))
	}
}

func translateText(reply bus.Reply, recipientID string) (*SendRequest, error) {
	if err := checkSuggestionsAndButtons(reply); err != nil {
		return nil, err
	}

	message := &Message{Text: reply.Text}

	if len(reply.Suggestions) > 0 {
		message.QuickReplies = translateSuggestions(reply.Suggestions)
	}

	// Buttons turn the text message into a button template; the text moves
	// into the template payload and the top-level text key is dropped.
	if len(reply.Buttons) > 0 {
		buttons, err := translateButtons(reply.Buttons)
		if err != nil {
			return nil, err
		}

		message.Text = ""
		message.Attachment = &Attachment{
			Type: "template",
			Payload: AttachmentPayload{
				TemplateType: "button",
				Text:         reply.Text,
				Buttons:      buttons,
			},
		}
	}

	return &SendRequest{Recipient: Recipient{ID: recipientID}, Message: message}, nil
}

// translateMedia handles image, audio, video and file replies. Messenger has
// no button slot on bare media, so Buttons are only checked for the
// suggestions conflict.
func translateMedia(reply bus.Reply, recipientID, mediaType, mediaURL string) (*SendRequest, error) {
	if err := checkSuggestionsAndButtons(reply); err != nil {
		return nil, err
	}

	message := &Message{
		Attachment: &Attachment{
			Type:    mediaType,
			Payload: AttachmentPayload{URL: mediaURL},
		},
	}
	if len(reply.Suggestions) > 0 {
		message.QuickReplies = translateSuggestions(reply.Suggestions)
	}

	return &SendRequest{Recipient: Recipient{ID: recipientID}, Message: message}, nil
}

func translateCards(reply bus.Reply, recipientID string) (*SendRequest, error) {
	if len(reply.Elements) == 0 || len(reply.Elements) > maxCardElements {
		return nil, NewError(ErrorValidation, fmt.Sprintf("cards require 1-%d elements, got %d", maxCardElements, len(reply.Elements)))
	}

	elements, err := translateElements(reply.Elements, maxCardButtons)
	if err != nil {
		return nil, err
	}

	payload := AttachmentPayload{
		TemplateType:     "generic",
		Elements:         elements,
		Sharable:         reply.Sharable,
		ImageAspectRatio: reply.AspectRatio,
	}

	message := &Message{Attachment: &Attachment{Type: "template", Payload: payload}}
	if len(reply.Suggestions) > 0 {
		message.QuickReplies = translateSuggestions(reply.Suggestions)
	}

	return &SendRequest{Recipient: Recipient{ID: recipientID}, Message: message}, nil
}

func translateList(reply bus.Reply, recipientID string) (*SendRequest, error) {
	if len(reply.Elements) < minListElements || len(reply.Elements) > maxListElements {
		return nil, NewError(ErrorValidation, fmt.Sprintf("lists require %d-%d elements, got %d", minListElements, maxListElements, len(reply.Elements)))
	}

	payload := AttachmentPayload{TemplateType: "list"}

	if style := strings.TrimSpace(reply.TopElementStyle); style != "" {
		if style != "large" && style != "compact" {
			return nil, NewError(ErrorValidation, fmt.Sprintf("top_element_style must be 'large' or 'compact', got %q", style))
		}
		payload.TopElementStyle = style
	}

	elements, err := translateElements(reply.Elements, maxListItemButtons)
	if err != nil {
		return nil, err
	}
	payload.Elements = elements

	if len(reply.Buttons) > 0 {
		if len(reply.Buttons) > 1 {
			return nil, NewError(ErrorValidation, "lists support a single button attached to the list itself")
		}

		buttons, err := translateButtons(reply.Buttons)
		if err != nil {
			return nil, err
		}
		payload.Buttons = buttons
	}

	message := &Message{Attachment: &Attachment{Type: "template", Payload: payload}}

	return &SendRequest{Recipient: Recipient{ID: recipientID}, Message: message}, nil
}

func senderAction(recipientID, action string) *SendRequest {
	return &SendRequest{Recipient: Recipient{ID: recipientID}, SenderAction: action}
}

func translateElements(elements []bus.CardElement, maxButtons int) ([]Element, error) {
	out := make([]Element, 0, len(elements))
	for _, element := range elements {
		translated, err := translateElement(element, maxButtons)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}

	return out, nil
}

func translateElement(element bus.CardElement, maxButtons int) (Element, error) {
	if strings.TrimSpace(element.Title) == "" {
		return Element{}, NewError(ErrorValidation, "card and list elements must have a title")
	}

	out := Element{
		Title:    element.Title,
		Subtitle: element.Subtitle,
		ImageURL: element.ImageURL,
	}

	if element.DefaultAction != nil {
		action := &CallToAction{
			Type: "web_url",
			URL:  element.DefaultAction.URL,
		}
		if element.DefaultAction.WebviewHeight != "" {
			action.WebviewHeightRatio = element.DefaultAction.WebviewHeight
		}
		out.DefaultAction = action
	}

	if len(element.Buttons) > 0 {
		if len(element.Buttons) > maxButtons {
			return Element{}, NewError(ErrorValidation, fmt.Sprintf("elements support at most %d buttons, got %d", maxButtons, len(element.Buttons)))
		}

		buttons, err := translateButtons(element.Buttons)
		if err != nil {
			return Element{}, err
		}
		out.Buttons = buttons
	}

	return out, nil
}

// translateButtons maps normalized buttons onto Messenger call-to-actions.
// Nested buttons recurse without a depth ceiling.
func translateButtons(buttons []bus.Button) ([]CallToAction, error) {
	out := make([]CallToAction, 0, len(buttons))
	for _, button := range buttons {
		switch button.Type {
		case bus.ButtonURL:
			cta := CallToAction{
				Type:  "web_url",
				URL:   button.URL,
				Title: button.Text,
			}
			if button.WebviewHeight != "" {
				cta.WebviewHeightRatio = button.WebviewHeight
			}
			if button.MessengerExtensions {
				cta.MessengerExtensions = true
			}
			out = append(out, cta)

		case bus.ButtonPayload:
			out = append(out, CallToAction{
				Type:    "postback",
				Payload: button.Payload,
				Title:   button.Text,
			})

		case bus.ButtonCall:
			out = append(out, CallToAction{
				Type:    "phone_number",
				Payload: button.PhoneNumber,
				Title:   button.Text,
			})

		case bus.ButtonLogin:
			out = append(out, CallToAction{
				Type: "account_link",
				URL:  button.URL,
			})

		case bus.ButtonLogout:
			out = append(out, CallToAction{Type: "account_unlink"})

		case bus.ButtonNested:
			nested, err := translateButtons(button.Buttons)
			if err != nil {
				return nil, err
			}
			out = append(out, CallToAction{
				Type:          "nested",
				Title:         button.Text,
				CallToActions: nested,
			})

		default:
			return nil, NewError(ErrorUnsupportedFeature, fmt.Sprintf("%q buttons are not supported", button.Type))
		}
	}

	return out, nil
}

// translateSuggestions renders quick replies. The location, phone and email
// types are bare content-type markers; everything else is a text chip whose
// payload falls back to the display text.
func translateSuggestions(suggestions []bus.Suggestion) []QuickReply {
	out := make([]QuickReply, 0, len(suggestions))
	for _, suggestion := range suggestions {
		switch suggestion.Type {
		case "location":
			out = append(out, QuickReply{ContentType: "location"})
		case "phone":
			out = append(out, QuickReply{ContentType: "user_phone_number"})
		case "email":
			out = append(out, QuickReply{ContentType: "user_email"})
		default:
			chip := QuickReply{
				ContentType: "text",
				Title:       suggestion.Text,
				Payload:     suggestion.Payload,
				ImageURL:    suggestion.ImageURL,
			}
			if chip.Payload == "" {
				chip.Payload = suggestion.Text
			}
			out = append(out, chip)
		}
	}

	return out
}

func checkSuggestionsAndButtons(reply bus.Reply) error {
	if len(reply.Suggestions) > 0 && len(reply.Buttons) > 0 {
		return NewError(ErrorValidation, "a reply cannot have both buttons and suggestions")
	}

	return nil
}
