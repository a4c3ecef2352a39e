package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"smart-home-agent/internal/domain"
)

// Pipeline sequences one request: load customer, classify, evaluate,
// execute, build the response context. Each step completes before the
// next begins and the pipeline keeps no state between requests.
type Pipeline struct {
	store      CustomerStore
	classifier RequestClassifier
	evaluator  PermissionEvaluator
	executor   ActionExecutor
	logger     *slog.Logger
	newID      func() string
}

func NewPipeline(
	store CustomerStore,
	classifier RequestClassifier,
	evaluator PermissionEvaluator,
	executor ActionExecutor,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		store:      store,
		classifier: classifier,
		evaluator:  evaluator,
		executor:   executor,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// NewDefaultPipeline wires the keyword classifier, tier evaluator and store
// executor around store.
func NewDefaultPipeline(store CustomerStore, logger *slog.Logger) *Pipeline {
	return NewPipeline(store, NewClassifier(), NewEvaluator(), NewExecutor(store, logger), logger)
}

// Handle runs the pipeline. The error return is reserved for failures the
// pipeline cannot describe in a context, such as an unreachable store or a
// cancelled request.
func (p *Pipeline) Handle(ctx context.Context, customerID, text string) (domain.ResponseContext, error) {
	requestID := p.newID()
	logger := p.logger.With("request_id", requestID, "customer_id", customerID)

	if err := ctx.Err(); err != nil {
		return domain.ResponseContext{}, err
	}

	customer, err := p.store.GetCustomer(ctx, customerID)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		logger.Info("customer not found")
		return domain.NewCustomerNotFoundContext(requestID, customerID), nil
	}
	if err != nil {
		return domain.ResponseContext{}, fmt.Errorf("loading customer %s: %w", customerID, err)
	}

	if err := ctx.Err(); err != nil {
		return domain.ResponseContext{}, err
	}

	cmd := p.classifier.Classify(text)
	logger.Debug("classified request",
		"action", cmd.Action,
		"device_type", cmd.DeviceType,
		"location", cmd.Location,
	)

	outcome := p.evaluator.Evaluate(customer.Tier, cmd.Action)
	if !outcome.Allowed {
		logger.Info("permission denied",
			"tier", customer.Tier,
			"action", cmd.Action,
			"required_tier", outcome.RequiredTier,
		)
		return BuildResponseContext(requestID, customer, outcome, nil), nil
	}

	if err := ctx.Err(); err != nil {
		return domain.ResponseContext{}, err
	}

	result := p.executor.Execute(ctx, customer, cmd)
	rc := BuildResponseContext(requestID, customer, outcome, &result)
	if rc.Executed() {
		logger.Info("action executed", "action", cmd.Action, "device_id", rc.Device().ID)
	} else {
		logger.Info("action failed", "action", cmd.Action, "kind", rc.ErrorKind(), "detail", rc.ErrorDetail())
	}

	return rc, nil
}
