package domain

// PermissionOutcome is the evaluator's verdict for one (tier, action) pair.
// RequiredTier is empty when no tier grants the action.
type PermissionOutcome struct {
	Action       Action     `json:"action"`
	Permission   Permission `json:"permission,omitempty"`
	Allowed      bool       `json:"allowed"`
	RequiredTier Tier       `json:"required_tier,omitempty"`
}

// ExecutionResult is what a handler reports. Executed is true only when
// the store write returned success.
type ExecutionResult struct {
	Executed  bool             `json:"executed"`
	Device    DeviceDescriptor `json:"device"`
	Attribute Attribute        `json:"attribute,omitempty"`
	Previous  Attributes       `json:"previous"`
	New       Attributes       `json:"new"`
	Err       *ActionError     `json:"error,omitempty"`
}

func Succeeded(device DeviceDescriptor, attr Attribute, update DeviceUpdate) ExecutionResult {
	return ExecutionResult{
		Executed:  true,
		Device:    device,
		Attribute: attr,
		Previous:  update.Previous.Clone(),
		New:       update.New.Clone(),
	}
}

func Failed(err *ActionError) ExecutionResult {
	return ExecutionResult{Err: err}
}
