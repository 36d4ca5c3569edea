package models

import "time"

// ModificationAction tags an audit entry.
type ModificationAction string

const (
	ActionCreated           ModificationAction = "created"
	ActionMoved             ModificationAction = "moved"
	ActionResized           ModificationAction = "resized"
	ActionPropertiesChanged ModificationAction = "properties_changed"
	ActionStatusChanged     ModificationAction = "status_changed"
	ActionDeleted           ModificationAction = "deleted"
)

// Modification is one entry of an object's audit trail.
type Modification struct {
	Action    ModificationAction `json:"action"`
	Actor     string             `json:"actor"`
	Timestamp time.Time          `json:"timestamp"`
	Before    map[string]any     `json:"before,omitempty"`
	After     map[string]any     `json:"after,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Automatic bool               `json:"automatic"`
}

// AddModification appends m to the history and drops the oldest entries
// beyond MaxHistory.
func (o *ObjectRecord) AddModification(m Modification) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	o.ModificationHistory = append(o.ModificationHistory, m)
	if n := len(o.ModificationHistory); n > MaxHistory {
		trimmed := make([]Modification, MaxHistory)
		copy(trimmed, o.ModificationHistory[n-MaxHistory:])
		o.ModificationHistory = trimmed
	}
}
