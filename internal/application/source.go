package application

import "context"

// Request is one inbound user utterance.
type Request struct {
	CustomerID string
	Text       string
}

// RequestSource yields requests until the context ends. NextRequest
// returns io.EOF when the source is exhausted.
type RequestSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextRequest(ctx context.Context) (Request, error)
	Name() string
}
