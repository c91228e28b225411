package ports

import (
	"context"

	"github.com/mikey/smart-reply/internal/core"
)

// ReplyIngest defines the interface for an inbound email source that
// feeds the reply pipeline
type ReplyIngest interface {
	// ProcessEmail runs the pipeline for one email directly, bypassing
	// the wire transport
	ProcessEmail(ctx context.Context, email *core.EmailInput) *core.ReplyResult

	// Start starts the ingest service
	Start() error

	// Stop stops the ingest service
	Stop() error
}
