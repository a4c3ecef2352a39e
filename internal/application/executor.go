package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"smart-home-agent/internal/domain"
)

type actionHandler func(ctx context.Context, customerID string, device domain.Device, cmd domain.Command) domain.ExecutionResult

// Executor runs classified commands against the store. Failures are
// returned inside the ExecutionResult; Execute never panics or returns an
// error.
type Executor struct {
	store    CustomerStore
	logger   *slog.Logger
	handlers map[domain.Action]actionHandler
}

func NewExecutor(store CustomerStore, logger *slog.Logger) *Executor {
	e := &Executor{
		store:  store,
		logger: logger,
	}
	e.handlers = map[domain.Action]actionHandler{
		domain.ActionPower:  e.setPower,
		domain.ActionVolume: e.setVolume,
		domain.ActionMedia:  e.setMedia,
	}
	return e
}

// Handles reports whether action has a registered handler.
func (e *Executor) Handles(action domain.Action) bool {
	_, ok := e.handlers[action]
	return ok
}

func (e *Executor) Execute(ctx context.Context, customer *domain.Customer, cmd domain.Command) (result domain.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("action handler panicked", "action", cmd.Action, "panic", r)
			result = domain.Failed(domain.NewActionError(domain.ErrorPersistenceFailed, "internal error executing %s", cmd.Action))
		}
	}()

	handler, ok := e.handlers[cmd.Action]
	if !ok {
		return domain.Failed(domain.NewActionError(domain.ErrorUnsupportedAttribute, "no handler for action %q", cmd.Action))
	}

	device, aerr := resolveDevice(customer, cmd)
	if aerr != nil {
		e.logger.Info("device resolution failed", "action", cmd.Action, "kind", aerr.Kind, "candidates", aerr.Candidates)
		return domain.Failed(aerr)
	}

	return handler(ctx, customer.ID, device, cmd)
}

func (e *Executor) setPower(ctx context.Context, customerID string, device domain.Device, cmd domain.Command) domain.ExecutionResult {
	target := cmd.Power
	if target == domain.PowerMissing {
		target = domain.PowerToggle
	}
	return e.write(ctx, customerID, device, domain.AttributeDelta{
		Attribute: domain.AttributePower,
		Power:     target,
	})
}

func (e *Executor) setVolume(ctx context.Context, customerID string, device domain.Device, cmd domain.Command) domain.ExecutionResult {
	if !device.Attributes.Has(domain.AttributeVolume) {
		return domain.Failed(domain.NewActionError(domain.ErrorUnsupportedAttribute, "%s %s has no volume control", device.Type, device.ID))
	}
	if cmd.Volume.Missing() {
		return domain.Failed(domain.NewActionError(domain.ErrorMissingParameter, "no volume level or direction given"))
	}
	return e.write(ctx, customerID, device, domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    cmd.Volume,
	})
}

func (e *Executor) setMedia(ctx context.Context, customerID string, device domain.Device, cmd domain.Command) domain.ExecutionResult {
	if !device.Attributes.Has(domain.AttributeMedia) {
		return domain.Failed(domain.NewActionError(domain.ErrorUnsupportedAttribute, "%s %s cannot play media", device.Type, device.ID))
	}
	if cmd.Media == "" {
		return domain.Failed(domain.NewActionError(domain.ErrorMissingParameter, "no media title given"))
	}
	return e.write(ctx, customerID, device, domain.AttributeDelta{
		Attribute: domain.AttributeMedia,
		Media:     cmd.Media,
	})
}

// write issues the single store write for a handler. Once issued the write
// is not cancelled, so its outcome is always known.
func (e *Executor) write(ctx context.Context, customerID string, device domain.Device, delta domain.AttributeDelta) domain.ExecutionResult {
	if err := ctx.Err(); err != nil {
		return domain.Failed(domain.NewActionError(domain.ErrorPersistenceFailed, "request cancelled before the write was issued: %v", err))
	}

	update, err := e.store.UpdateDevice(context.WithoutCancel(ctx), customerID, device.ID, delta)
	if err != nil {
		e.logger.Warn("device update failed",
			"customer_id", customerID,
			"device_id", device.ID,
			"attribute", delta.Attribute,
			"error", err,
		)
		return domain.Failed(storeError(device, delta.Attribute, err))
	}

	e.logger.Info("device updated",
		"customer_id", customerID,
		"device_id", device.ID,
		"attribute", delta.Attribute,
	)
	return domain.Succeeded(device.Descriptor(), delta.Attribute, update)
}

func storeError(device domain.Device, attr domain.Attribute, err error) *domain.ActionError {
	switch {
	case errors.Is(err, domain.ErrDeviceNotFound), errors.Is(err, domain.ErrCustomerNotFound):
		return domain.NewActionError(domain.ErrorDeviceNotFound, "device %s no longer exists", device.ID)
	case errors.Is(err, domain.ErrUnsupportedAttribute):
		return domain.NewActionError(domain.ErrorUnsupportedAttribute, "%s %s does not support %s", device.Type, device.ID, attr)
	default:
		return &domain.ActionError{
			Kind:   domain.ErrorPersistenceFailed,
			Detail: fmt.Sprintf("saving %s on %s: %v", attr, device.ID, err),
		}
	}
}
