package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// Priority is the urgency label attached to a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrUnknownField    = errors.New("unknown field")
)

// Valid reports whether p is one of Low, Medium or High.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts any casing ("high", "HIGH") and returns the canonical label.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPriority)
	}
	p := Priority(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPriority, string(data))
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask returns a task with the defaults a freshly created record carries.
func NewTask(title, description string) Task {
	return Task{
		Title:       title,
		Description: description,
		Priority:    PriorityMedium,
	}
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
// id and created_at are immutable and therefore not part of the structure.
type TaskUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Completed   *bool     `json:"completed"`
	Priority    *Priority `json:"priority"`
	Summary     *string   `json:"summary"`
}

var mutableFields = []string{"title", "description", "completed", "priority", "summary"}

// UpdateField is one column assignment derived from a TaskUpdate.
type UpdateField struct {
	Column string
	Value  any
}

// IsEmpty reports whether the update carries no field at all.
func (u TaskUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Fields lists the supplied assignments in a fixed column order.
func (u TaskUpdate) Fields() []UpdateField {
	var fields []UpdateField
	if u.Title != nil {
		fields = append(fields, UpdateField{Column: "title", Value: *u.Title})
	}
	if u.Description != nil {
		fields = append(fields, UpdateField{Column: "description", Value: *u.Description})
	}
	if u.Completed != nil {
		fields = append(fields, UpdateField{Column: "completed", Value: *u.Completed})
	}
	if u.Priority != nil {
		fields = append(fields, UpdateField{Column: "priority", Value: string(*u.Priority)})
	}
	if u.Summary != nil {
		fields = append(fields, UpdateField{Column: "summary", Value: *u.Summary})
	}
	return fields
}

// Apply returns t with every supplied field of u written over it.
func (u TaskUpdate) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Summary != nil {
		t.Summary = *u.Summary
	}
	return t
}

// DecodeTaskUpdate reads a JSON object into a TaskUpdate. Keys must match a
// mutable task field exactly, including case.
func DecodeTaskUpdate(r io.Reader) (TaskUpdate, error) {
	var raw map[string]json.RawMessage

	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return TaskUpdate{}, err
	}
	if dec.More() {
		return TaskUpdate{}, errors.New("unexpected data after JSON object")
	}

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !slices.Contains(mutableFields, key) {
			return TaskUpdate{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}

	var u TaskUpdate
	targets := map[string]any{
		"title":       &u.Title,
		"description": &u.Description,
		"completed":   &u.Completed,
		"priority":    &u.Priority,
		"summary":     &u.Summary,
	}
	for key, value := range raw {
		if err := json.Unmarshal(value, targets[key]); err != nil {
			return TaskUpdate{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	return u, nil
}
