package application

import "smart-home-agent/internal/domain"

// BuildResponseContext merges the permission outcome and execution result
// into the context handed to the response generator. A nil result on an
// allowed outcome means nothing was executed.
func BuildResponseContext(requestID string, customer *domain.Customer, outcome domain.PermissionOutcome, result *domain.ExecutionResult) domain.ResponseContext {
	summary := customer.Summary()

	if !outcome.Allowed {
		return domain.NewDeniedContext(requestID, summary, outcome)
	}

	if result == nil {
		return domain.NewFailedContext(requestID, summary,
			domain.NewActionError(domain.ErrorPersistenceFailed, "%s was allowed but not executed", outcome.Action))
	}

	return domain.NewExecutedContext(requestID, summary, *result)
}
