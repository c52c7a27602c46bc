// Package events fans ticket lifecycle changes out to live listeners. With
// Redis configured every API instance sees every event; without it events
// stay inside the process.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

// Type names a lifecycle change.
type Type string

const (
	ProblemCreated       Type = "problem.created"
	ProblemUpdated       Type = "problem.updated"
	ProblemStatusChanged Type = "problem.status_changed"
	ProblemDeleted       Type = "problem.deleted"
	InstructionCreated   Type = "instruction.created"
	InstructionDeleted   Type = "instruction.deleted"
)

// Event is the payload delivered to listeners.
type Event struct {
	Type      Type                `json:"type"`
	ProblemID string              `json:"problem_id"`
	Status    model.ProblemStatus `json:"status,omitempty"`
	Actor     string              `json:"actor,omitempty"`
	At        model.Timestamp     `json:"at"`
}

// New builds an event stamped with the current time.
func New(t Type, problemID string, status model.ProblemStatus, actor string) Event {
	return Event{Type: t, ProblemID: problemID, Status: status, Actor: actor, At: model.Now()}
}

// Publisher emits events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscription is a live feed of encoded events. C is closed after Close.
type Subscription struct {
	C     <-chan []byte
	close func() error
}

// Close stops the feed.
func (s *Subscription) Close() error { return s.close() }

// Bus publishes events and hands out subscriptions.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (*Subscription, error)
}

func encode(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}
