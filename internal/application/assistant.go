package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"smart-home-agent/internal/domain"
)

const genericFailureReply = "Sorry, I couldn't process that request right now. Please try again in a moment."

// Reply is the outcome of one request: the context the pipeline built and
// the text generated from it.
type Reply struct {
	Request Request
	Context domain.ResponseContext
	Text    string
}

type Assistant struct {
	source    RequestSource
	pipeline  *Pipeline
	generator ResponseGenerator
	fallback  ResponseGenerator
	notifier  Notifier
	logger    *slog.Logger
}

func NewAssistant(
	source RequestSource,
	pipeline *Pipeline,
	generator ResponseGenerator,
	notifier Notifier,
	logger *slog.Logger,
) *Assistant {
	return &Assistant{
		source:    source,
		pipeline:  pipeline,
		generator: generator,
		fallback:  &TemplateResponder{},
		notifier:  notifier,
		logger:    logger,
	}
}

// Run processes requests until the source is exhausted or ctx ends.
func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting request source", "source", a.source.Name())
	if err := a.source.Start(ctx); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	defer a.source.Stop()

	a.logger.Info("assistant ready, waiting for requests")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOneRequest(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					a.logger.Info("request source exhausted")
					return nil
				}
				if errors.Is(err, context.Canceled) {
					return err
				}
				a.logger.Error("processing request", "error", err)
			}
		}
	}
}

func (a *Assistant) processOneRequest(ctx context.Context) error {
	req, err := a.source.NextRequest(ctx)
	if err != nil {
		return fmt.Errorf("getting request: %w", err)
	}

	if req.Text == "" {
		return nil
	}

	reply, err := a.Respond(ctx, req)
	if err != nil {
		if notifyErr := a.notifier.Notify(ctx, genericFailureReply); notifyErr != nil {
			a.logger.Error("notifying failure", "error", notifyErr)
		}
		return err
	}

	if err := a.notifier.Notify(ctx, reply.Text); err != nil {
		a.logger.Error("notifying reply", "error", err)
	}

	return nil
}

// Respond runs the pipeline for req and generates the reply text. The
// generator receives the context unmodified; if it fails the template
// responder is used instead.
func (a *Assistant) Respond(ctx context.Context, req Request) (Reply, error) {
	a.logger.Info("received request", "customer_id", req.CustomerID, "text", req.Text)

	rc, err := a.pipeline.Handle(ctx, req.CustomerID, req.Text)
	if err != nil {
		return Reply{}, fmt.Errorf("handling request: %w", err)
	}

	text, err := a.generator.Generate(ctx, req.Text, rc)
	if err != nil {
		a.logger.Warn("response generation failed, using template", "request_id", rc.RequestID(), "error", err)
		text, err = a.fallback.Generate(ctx, req.Text, rc)
		if err != nil {
			return Reply{}, fmt.Errorf("generating response: %w", err)
		}
	}

	return Reply{Request: req, Context: rc, Text: text}, nil
}
