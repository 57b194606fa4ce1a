package channel

import (
	"context"

	"pagebridge/pkg/bus"
)

// Handler is the conversation engine's entry point: it consumes one
// normalized inbound message and returns the ordered replies to deliver.
type Handler func(context.Context, bus.InboundMessage) ([]bus.Reply, error)

// Adapter bridges one external messaging platform (for example Facebook
// Messenger) into the normalized message model.
type Adapter interface {
	Name() string
	Run(context.Context, Handler) error
}
