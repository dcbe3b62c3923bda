package domain

import "time"

// ObservedState is the runtime-queried state of the target container.
// It is re-queried from the runtime when needed and never cached across
// reconcile steps.
type ObservedState struct {
	Exists  bool   `json:"exists"`
	Running bool   `json:"running"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Status  string `json:"status,omitempty"`
}

// RunningContainer is the handle returned by a successful reconcile pass.
type RunningContainer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	InvocationID string    `json:"invocation_id"`
	StartedAt    time.Time `json:"started_at"`
}
