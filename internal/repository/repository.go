// Package repository declares the persistence contracts of the helpdesk.
// Implementations live in mongostore, pgstore and memstore; all of them
// persist codec records, so timestamps are stored as ISO-8601 text.
package repository

import (
	"context"
	"errors"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

// Sentinel errors shared by every store.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ProblemRepository persists problems.
type ProblemRepository interface {
	Create(ctx context.Context, p model.Problem) error
	GetByID(ctx context.Context, id string) (model.Problem, error)
	List(ctx context.Context, f ProblemFilter) ([]model.Problem, error)
	// Update applies changes atomically and returns the updated problem.
	Update(ctx context.Context, id string, ch ProblemChanges) (model.Problem, error)
	Delete(ctx context.Context, id string) error
	// Stats aggregates over a single snapshot of the problem set.
	Stats(ctx context.Context) (model.Stats, error)
}

// InstructionRepository persists instructions, at most one per problem.
type InstructionRepository interface {
	// Upsert stores in, replacing any instruction of the same problem.
	Upsert(ctx context.Context, in model.Instruction) error
	GetByProblem(ctx context.Context, problemID string) (model.Instruction, error)
	// DeleteByProblem removes every instruction of the problem and reports
	// how many were removed.
	DeleteByProblem(ctx context.Context, problemID string) (int64, error)
}

// AdminRepository persists the admin directory, keyed by lower-case email.
type AdminRepository interface {
	List(ctx context.Context) ([]model.Admin, error)
	Count(ctx context.Context) (int64, error)
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, a model.Admin) error
	DeleteByEmail(ctx context.Context, email string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Problems     ProblemRepository
	Instructions InstructionRepository
	Admins       AdminRepository
}
