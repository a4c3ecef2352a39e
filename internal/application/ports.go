package application

import (
	"context"

	"smart-home-agent/internal/domain"
)

// CustomerStore is the persisted customer/device record store.
// GetCustomer returns domain.ErrCustomerNotFound for unknown ids.
// UpdateDevice applies delta in a single read-modify-write and returns the
// attribute snapshots before and after the write.
type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateDevice(ctx context.Context, customerID, deviceID string, delta domain.AttributeDelta) (domain.DeviceUpdate, error)
}

// ResponseGenerator turns a response context into user-facing text.
type ResponseGenerator interface {
	Generate(ctx context.Context, text string, rc domain.ResponseContext) (string, error)
}

type RequestClassifier interface {
	Classify(text string) domain.Command
}

type PermissionEvaluator interface {
	Evaluate(tier domain.Tier, action domain.Action) domain.PermissionOutcome
}

type ActionExecutor interface {
	Execute(ctx context.Context, customer *domain.Customer, cmd domain.Command) domain.ExecutionResult
}
