package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/events"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

// TicketService manages the problem lifecycle.
type TicketService struct {
	problems     repository.ProblemRepository
	instructions repository.InstructionRepository
	events       events.Publisher
	log          zerolog.Logger
}

// NewTicketService creates a new TicketService. pub may be nil.
func NewTicketService(store *repository.Store, pub events.Publisher, log zerolog.Logger) *TicketService {
	return &TicketService{
		problems:     store.Problems,
		instructions: store.Instructions,
		events:       pub,
		log:          log.With().Str("component", "ticket_service").Logger(),
	}
}

// Create stores a new problem with status New. CreatedBy falls back to actor.
func (s *TicketService) Create(ctx context.Context, req model.CreateProblemRequest, actor string) (model.Problem, error) {
	if !req.Category.Valid() {
		return model.Problem{}, ErrInvalidCategory
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = actor
	}
	attachments := req.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	now := model.Now()
	p := model.Problem{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusNew,
		Category:    req.Category,
		Attachments: attachments,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.problems.Create(ctx, p); err != nil {
		return model.Problem{}, fmt.Errorf("create problem: %w", err)
	}

	s.log.Info().Str("problem_id", p.ID).Str("category", string(p.Category)).Msg("Problem created")
	publish(ctx, s.events, s.log, events.New(events.ProblemCreated, p.ID, p.Status, actor))
	return p, nil
}

// Get returns one problem.
func (s *TicketService) Get(ctx context.Context, id string) (model.Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return model.Problem{}, ticketErr(err)
	}
	return p, nil
}

// List returns the problems matching f, in no particular order.
func (s *TicketService) List(ctx context.Context, f repository.ProblemFilter) ([]model.Problem, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	problems, err := s.problems.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	if problems == nil {
		problems = []model.Problem{}
	}
	return problems, nil
}

// Update applies the non-nil fields of req and refreshes updated_at.
func (s *TicketService) Update(ctx context.Context, id string, req model.UpdateProblemRequest, actor string) (model.Problem, error) {
	if req.Category != nil && !req.Category.Valid() {
		return model.Problem{}, ErrInvalidCategory
	}
	p, err := s.problems.Update(ctx, id, repository.ProblemChanges{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Attachments: req.Attachments,
		UpdatedAt:   model.Now(),
	})
	if err != nil {
		return model.Problem{}, ticketErr(err)
	}

	publish(ctx, s.events, s.log, events.New(events.ProblemUpdated, p.ID, p.Status, actor))
	return p, nil
}

// UpdateStatus overrides the status of a problem.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status model.ProblemStatus, actor string) (model.Problem, error) {
	if !status.Valid() {
		return model.Problem{}, ErrInvalidStatus
	}
	p, err := s.problems.Update(ctx, id, repository.ProblemChanges{
		Status:    &status,
		UpdatedAt: model.Now(),
	})
	if err != nil {
		return model.Problem{}, ticketErr(err)
	}

	s.log.Info().Str("problem_id", id).Str("status", string(status)).Str("actor", actor).Msg("Problem status changed")
	publish(ctx, s.events, s.log, events.New(events.ProblemStatusChanged, p.ID, p.Status, actor))
	return p, nil
}

// Delete removes a problem together with its instruction. The two deletes
// are not atomic: if the second fails the instruction is already gone.
func (s *TicketService) Delete(ctx context.Context, id, actor string) error {
	if _, err := s.problems.GetByID(ctx, id); err != nil {
		return ticketErr(err)
	}

	removed, err := s.instructions.DeleteByProblem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete instructions: %w", err)
	}

	if err := s.problems.Delete(ctx, id); err != nil {
		if removed > 0 {
			s.log.Error().Err(err).Str("problem_id", id).Msg("Instruction deleted but problem delete failed")
		}
		return ticketErr(err)
	}

	s.log.Info().Str("problem_id", id).Int64("instructions_removed", removed).Str("actor", actor).Msg("Problem deleted")
	publish(ctx, s.events, s.log, events.New(events.ProblemDeleted, id, "", actor))
	return nil
}

func ticketErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTicketNotFound
	}
	return err
}

// publish emits e. A failed publish never fails the operation that caused
// it.
func publish(ctx context.Context, pub events.Publisher, log zerolog.Logger, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Str("problem_id", e.ProblemID).Msg("Event publish failed")
	}
}
