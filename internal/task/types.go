// Package task implements the task store and lifecycle rules: CRUD over
// owner-scoped task records, enum validation, and the completion transition
// that feeds the streak engine.
package task

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Status is a board column. A task is always in exactly one of the four.
type Status string

const (
	StatusIdeas      Status = "ideas"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIdeas, StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Statuses lists all valid statuses in board order.
func Statuses() []Status {
	return []Status{StatusIdeas, StatusTodo, StatusInProgress, StatusCompleted}
}

// Priority is a task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single task record.
//
// CompletedAt is sticky history: it is set when the task first transitions
// into completed and is not cleared if the task later leaves the column.
// OwnerEmail is the sole tenancy boundary; the JSON name userEmail matches
// the wire format the clients speak.
type Task struct {
	ID          string     `gorm:"primarykey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	Priority    Priority   `gorm:"size:10;not null;default:low" json:"priority"`
	Status      Status     `gorm:"size:12;not null;index" json:"status"`
	DueDate     *time.Time `gorm:"index" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"-"`
	CompletedAt *time.Time `gorm:"index" json:"completedAt,omitempty"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	SharedWith  []string   `gorm:"serializer:json" json:"sharedWith"`
	Reminded    bool       `gorm:"not null;default:false" json:"reminded"`
	OwnerEmail  string     `gorm:"size:254;not null;index" json:"userEmail"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Validate checks the record against the field invariants.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if t.OwnerEmail == "" {
		return ErrEmptyOwner
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged; an explicit
// JSON null for dueDate, tags or sharedWith clears the field (the wire
// format treats absent and null differently for those three).
type Patch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	SharedWith  []string   `json:"sharedWith,omitempty"`
	Reminded    *bool      `json:"reminded,omitempty"`

	ClearDueDate bool `json:"-"`
}

// UnmarshalJSON decodes the patch and records which nullable fields were an
// explicit null rather than absent.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Patch(decoded)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["dueDate"]; ok && isJSONNull(v) {
		p.ClearDueDate = true
	}
	if v, ok := raw["tags"]; ok && isJSONNull(v) {
		p.Tags = []string{}
	}
	if v, ok := raw["sharedWith"]; ok && isJSONNull(v) {
		p.SharedWith = []string{}
	}
	return nil
}

func isJSONNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// Apply merges the patch into t.
func (p *Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	} else if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
	if p.SharedWith != nil {
		t.SharedWith = p.SharedWith
	}
	if p.Reminded != nil {
		t.Reminded = *p.Reminded
	}
}
