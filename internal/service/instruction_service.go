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

// InstructionService manages problem resolutions.
type InstructionService struct {
	problems     repository.ProblemRepository
	instructions repository.InstructionRepository
	events       events.Publisher
	log          zerolog.Logger
}

// NewInstructionService creates a new InstructionService. pub may be nil.
func NewInstructionService(store *repository.Store, pub events.Publisher, log zerolog.Logger) *InstructionService {
	return &InstructionService{
		problems:     store.Problems,
		instructions: store.Instructions,
		events:       pub,
		log:          log.With().Str("component", "instruction_service").Logger(),
	}
}

// Create stores the instruction of a problem, replacing any earlier one,
// and marks the problem Resolved.
func (s *InstructionService) Create(ctx context.Context, req model.CreateInstructionRequest, actor string) (model.Instruction, error) {
	if _, err := s.problems.GetByID(ctx, req.ProblemID); err != nil {
		return model.Instruction{}, ticketErr(err)
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = actor
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	in := model.Instruction{
		ID:              uuid.New().String(),
		ProblemID:       req.ProblemID,
		InstructionText: req.InstructionText,
		Images:          images,
		CreatedBy:       createdBy,
		CreatedAt:       model.Now(),
	}
	if err := s.instructions.Upsert(ctx, in); err != nil {
		return model.Instruction{}, fmt.Errorf("store instruction: %w", err)
	}

	if err := s.setStatus(ctx, req.ProblemID, model.StatusResolved); err != nil {
		return model.Instruction{}, err
	}

	s.log.Info().Str("problem_id", req.ProblemID).Str("actor", actor).Msg("Instruction created")
	publish(ctx, s.events, s.log, events.New(events.InstructionCreated, req.ProblemID, model.StatusResolved, actor))
	return in, nil
}

// GetByTicket returns the instruction of a problem, or nil when it has none.
func (s *InstructionService) GetByTicket(ctx context.Context, problemID string) (*model.Instruction, error) {
	in, err := s.instructions.GetByProblem(ctx, problemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get instruction: %w", err)
	}
	return &in, nil
}

// DeleteByTicket removes the instruction of a problem and moves the problem
// back to InProgress.
func (s *InstructionService) DeleteByTicket(ctx context.Context, problemID, actor string) error {
	n, err := s.instructions.DeleteByProblem(ctx, problemID)
	if err != nil {
		return fmt.Errorf("delete instruction: %w", err)
	}
	if n == 0 {
		return ErrInstructionNotFound
	}

	if err := s.setStatus(ctx, problemID, model.StatusInProgress); err != nil {
		if !errors.Is(err, ErrTicketNotFound) {
			return err
		}
		s.log.Warn().Str("problem_id", problemID).Msg("Instruction removed for a missing problem")
	}

	s.log.Info().Str("problem_id", problemID).Str("actor", actor).Msg("Instruction deleted")
	publish(ctx, s.events, s.log, events.New(events.InstructionDeleted, problemID, model.StatusInProgress, actor))
	return nil
}

func (s *InstructionService) setStatus(ctx context.Context, problemID string, status model.ProblemStatus) error {
	_, err := s.problems.Update(ctx, problemID, repository.ProblemChanges{
		Status:    &status,
		UpdatedAt: model.Now(),
	})
	if err != nil {
		return ticketErr(err)
	}
	return nil
}
