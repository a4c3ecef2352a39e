package domain

import "encoding/json"

// ResponseContext is the per-request aggregate handed to the response
// generator. It has exactly one of three shapes: denied, allowed but not
// executed, or executed. Fields are unexported so the shape cannot be
// changed after construction.
type ResponseContext struct {
	requestID string
	customer  CustomerSummary
	allowed   bool

	deniedAction Action
	requiredTier Tier

	executed bool
	failure  *ActionError

	device    DeviceDescriptor
	attribute Attribute
	previous  Attributes
	next      Attributes
}

// NewCustomerNotFoundContext is returned when the customer record is missing.
func NewCustomerNotFoundContext(requestID, customerID string) ResponseContext {
	return ResponseContext{
		requestID: requestID,
		customer:  CustomerSummary{ID: customerID},
		failure:   NewActionError(ErrorCustomerNotFound, "no customer with id %q", customerID),
	}
}

func NewDeniedContext(requestID string, customer CustomerSummary, outcome PermissionOutcome) ResponseContext {
	return ResponseContext{
		requestID:    requestID,
		customer:     customer,
		deniedAction: outcome.Action,
		requiredTier: outcome.RequiredTier,
	}
}

func NewFailedContext(requestID string, customer CustomerSummary, err *ActionError) ResponseContext {
	failure := *err
	failure.Candidates = append([]string(nil), err.Candidates...)
	return ResponseContext{
		requestID: requestID,
		customer:  customer,
		allowed:   true,
		failure:   &failure,
	}
}

// NewExecutedContext requires a result whose store write succeeded; any
// other result yields the failure shape instead.
func NewExecutedContext(requestID string, customer CustomerSummary, result ExecutionResult) ResponseContext {
	if !result.Executed {
		err := result.Err
		if err == nil {
			err = NewActionError(ErrorPersistenceFailed, "action was not executed")
		}
		return NewFailedContext(requestID, customer, err)
	}
	return ResponseContext{
		requestID: requestID,
		customer:  customer,
		allowed:   true,
		executed:  true,
		device:    result.Device,
		attribute: result.Attribute,
		previous:  result.Previous.Clone(),
		next:      result.New.Clone(),
	}
}

func (rc ResponseContext) RequestID() string         { return rc.requestID }
func (rc ResponseContext) Customer() CustomerSummary { return rc.customer }
func (rc ResponseContext) Allowed() bool             { return rc.allowed }
func (rc ResponseContext) Executed() bool            { return rc.executed }
func (rc ResponseContext) DeniedAction() Action      { return rc.deniedAction }
func (rc ResponseContext) RequiredTier() Tier        { return rc.requiredTier }
func (rc ResponseContext) Device() DeviceDescriptor  { return rc.device }
func (rc ResponseContext) Attribute() Attribute      { return rc.attribute }
func (rc ResponseContext) Previous() Attributes      { return rc.previous.Clone() }
func (rc ResponseContext) New() Attributes           { return rc.next.Clone() }

// Denied reports the permission-denied shape.
func (rc ResponseContext) Denied() bool {
	return !rc.allowed && rc.failure == nil
}

// ErrorKind returns the failure kind, PermissionDenied for denials, or ""
// on success.
func (rc ResponseContext) ErrorKind() ErrorKind {
	if rc.failure != nil {
		return rc.failure.Kind
	}
	if rc.Denied() {
		return ErrorPermissionDenied
	}
	return ""
}

func (rc ResponseContext) ErrorDetail() string {
	if rc.failure == nil {
		return ""
	}
	return rc.failure.Detail
}

func (rc ResponseContext) Candidates() []string {
	if rc.failure == nil {
		return nil
	}
	return append([]string(nil), rc.failure.Candidates...)
}

type responseContextJSON struct {
	RequestID    string            `json:"request_id"`
	Customer     CustomerSummary   `json:"customer"`
	Allowed      bool              `json:"allowed"`
	DeniedAction Action            `json:"denied_action,omitempty"`
	RequiredTier Tier              `json:"required_tier,omitempty"`
	Executed     *bool             `json:"executed,omitempty"`
	ErrorKind    ErrorKind         `json:"error_kind,omitempty"`
	ErrorDetail  string            `json:"error_detail,omitempty"`
	Candidates   []string          `json:"candidates,omitempty"`
	Device       *DeviceDescriptor `json:"device,omitempty"`
	Attribute    Attribute         `json:"attribute,omitempty"`
	Previous     *Attributes       `json:"previous,omitempty"`
	New          *Attributes       `json:"new,omitempty"`
}

func (rc ResponseContext) MarshalJSON() ([]byte, error) {
	out := responseContextJSON{
		RequestID: rc.requestID,
		Customer:  rc.customer,
		Allowed:   rc.allowed,
	}

	switch {
	case rc.Denied():
		out.DeniedAction = rc.deniedAction
		out.RequiredTier = rc.requiredTier
	case rc.executed:
		executed := true
		device := rc.device
		previous := rc.previous.Clone()
		next := rc.next.Clone()
		out.Executed = &executed
		out.Device = &device
		out.Attribute = rc.attribute
		out.Previous = &previous
		out.New = &next
	default:
		if rc.allowed {
			executed := false
			out.Executed = &executed
		}
		out.ErrorKind = rc.failure.Kind
		out.ErrorDetail = rc.failure.Detail
		out.Candidates = rc.Candidates()
	}

	return json.Marshal(out)
}
