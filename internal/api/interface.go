package api

import (
	"context"

	"github.com/lucas/huechat/internal/chat"
)

// ClientInterface defines the client surface consumed by the TUI and
// command layers. *Client is the production implementation; MockClient
// backs tests.
type ClientInterface interface {
	Complete(ctx context.Context, apiKey, prompt string, history []chat.Turn) (string, error)
	GetModel() string
	SetModel(model string)
	Close()
	IsClosed() bool
}
