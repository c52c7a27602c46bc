// Package memstore is an in-process document store. It keeps codec records,
// exactly what the database stores would persist, behind a single RWMutex.
// It backs STORAGE_DRIVER=memory and the service and handler tests.
package memstore

import (
	"context"
	"sync"

	"github.com/hdbaza/helpdesk-api/internal/codec"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

type db struct {
	mu sync.RWMutex

	problems     map[string]codec.Record
	problemOrder []string

	instructions map[string]codec.Record // keyed by problem_id

	admins     map[string]codec.Record // keyed by email
	adminOrder []string
}

// New returns an empty in-memory store.
func New() *repository.Store {
	d := &db{
		problems:     make(map[string]codec.Record),
		instructions: make(map[string]codec.Record),
		admins:       make(map[string]codec.Record),
	}
	return &repository.Store{
		Problems:     &problemRepo{d},
		Instructions: &instructionRepo{d},
		Admins:       &adminRepo{d},
	}
}

func removeKey(order []string, key string) []string {
	for i, k := range order {
		if k == key {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// ─── Problems ──────────────────────────────────────────────────────────

type problemRepo struct{ db *db }

func (r *problemRepo) Create(_ context.Context, p model.Problem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.problems[p.ID]; exists {
		return repository.ErrDuplicate
	}
	r.db.problems[p.ID] = codec.EncodeProblem(p)
	r.db.problemOrder = append(r.db.problemOrder, p.ID)
	return nil
}

func (r *problemRepo) GetByID(_ context.Context, id string) (model.Problem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.problems[id]
	if !ok {
		return model.Problem{}, repository.ErrNotFound
	}
	return codec.DecodeProblem(rec)
}

func (r *problemRepo) List(_ context.Context, f repository.ProblemFilter) ([]model.Problem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Problem, 0, len(r.db.problemOrder))
	for _, id := range r.db.problemOrder {
		p, err := codec.DecodeProblem(r.db.problems[id])
		if err != nil {
			return nil, err
		}
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *problemRepo) Update(_ context.Context, id string, ch repository.ProblemChanges) (model.Problem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rec, ok := r.db.problems[id]
	if !ok {
		return model.Problem{}, repository.ErrNotFound
	}
	merged := make(codec.Record, len(rec))
	for k, v := range rec {
		merged[k] = v
	}
	for k, v := range ch.Fields() {
		merged[k] = v
	}
	r.db.problems[id] = merged
	return codec.DecodeProblem(merged)
}

func (r *problemRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.problems[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.problems, id)
	r.db.problemOrder = removeKey(r.db.problemOrder, id)
	return nil
}

func (r *problemRepo) Stats(_ context.Context) (model.Stats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stats := model.NewStats()
	for _, rec := range r.db.problems {
		p, err := codec.DecodeProblem(rec)
		if err != nil {
			return model.Stats{}, err
		}
		stats.Total++
		stats.ByStatus[p.Status]++
		stats.ByCategory[p.Category]++
	}
	return stats, nil
}

// ─── Instructions ──────────────────────────────────────────────────────

type instructionRepo struct{ db *db }

func (r *instructionRepo) Upsert(_ context.Context, in model.Instruction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.instructions[in.ProblemID] = codec.EncodeInstruction(in)
	return nil
}

func (r *instructionRepo) GetByProblem(_ context.Context, problemID string) (model.Instruction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.instructions[problemID]
	if !ok {
		return model.Instruction{}, repository.ErrNotFound
	}
	return codec.DecodeInstruction(rec)
}

func (r *instructionRepo) DeleteByProblem(_ context.Context, problemID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.instructions[problemID]; !ok {
		return 0, nil
	}
	delete(r.db.instructions, problemID)
	return 1, nil
}

// ─── Admins ────────────────────────────────────────────────────────────

type adminRepo struct{ db *db }

func (r *adminRepo) List(_ context.Context) ([]model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Admin, 0, len(r.db.adminOrder))
	for _, email := range r.db.adminOrder {
		a, err := codec.DecodeAdmin(r.db.admins[email])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *adminRepo) Count(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.admins)), nil
}

func (r *adminRepo) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.admins[email]
	if !ok {
		return model.Admin{}, repository.ErrNotFound
	}
	return codec.DecodeAdmin(rec)
}

func (r *adminRepo) Create(_ context.Context, a model.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.admins[a.Email]; exists {
		return repository.ErrDuplicate
	}
	r.db.admins[a.Email] = codec.EncodeAdmin(a)
	r.db.adminOrder = append(r.db.adminOrder, a.Email)
	return nil
}

func (r *adminRepo) DeleteByEmail(_ context.Context, email string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.admins[email]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.admins, email)
	r.db.adminOrder = removeKey(r.db.adminOrder, email)
	return nil
}
