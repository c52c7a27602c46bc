// Package pgstore persists the helpdesk in PostgreSQL, one JSONB document
// per row. Tables are created by the migrations under migrations/.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdbaza/helpdesk-api/internal/codec"
	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

const uniqueViolation = "23505"

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Problems:     &problemRepo{db: pool},
		Instructions: &instructionRepo{db: pool},
		Admins:       &adminRepo{db: pool},
	}
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

func marshal(r codec.Record) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

func unmarshal(raw []byte) (codec.Record, error) {
	var r codec.Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return r, nil
}

// ─── Problems ──────────────────────────────────────────────────────────

type problemRepo struct {
	db *pgxpool.Pool
}

func (r *problemRepo) Create(ctx context.Context, p model.Problem) error {
	doc, err := marshal(codec.EncodeProblem(p))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO problems (id, doc) VALUES ($1, $2::jsonb)`, p.ID, doc)
	return translate(err)
}

func (r *problemRepo) GetByID(ctx context.Context, id string) (model.Problem, error) {
	var raw []byte
	if err := r.db.QueryRow(ctx, `SELECT doc FROM problems WHERE id = $1`, id).Scan(&raw); err != nil {
		return model.Problem{}, translate(err)
	}
	rec, err := unmarshal(raw)
	if err != nil {
		return model.Problem{}, err
	}
	return codec.DecodeProblem(rec)
}

// listQuery builds the SELECT for f. Search uses ILIKE with the LIKE
// metacharacters escaped so the text matches literally.
func listQuery(f repository.ProblemFilter) (string, []any) {
	query := `SELECT doc FROM problems WHERE TRUE`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(` AND doc->>'status' = $%d`, len(args))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(` AND doc->>'category' = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, repository.LikePattern(f.Search))
		n := len(args)
		query += fmt.Sprintf(` AND (doc->>'title' ILIKE $%d OR doc->>'description' ILIKE $%d)`, n, n)
	}
	return query, args
}

func (r *problemRepo) List(ctx context.Context, f repository.ProblemFilter) ([]model.Problem, error) {
	query, args := listQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	out := []model.Problem{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := unmarshal(raw)
		if err != nil {
			return nil, err
		}
		p, err := codec.DecodeProblem(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *problemRepo) Update(ctx context.Context, id string, ch repository.ProblemChanges) (model.Problem, error) {
	fields := ch.Fields()
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	patch, err := marshal(fields)
	if err != nil {
		return model.Problem{}, err
	}

	var raw []byte
	err = r.db.QueryRow(ctx,
		`UPDATE problems SET doc = doc || $2::jsonb WHERE id = $1 RETURNING doc`,
		id, patch,
	).Scan(&raw)
	if err != nil {
		return model.Problem{}, translate(err)
	}
	rec, err := unmarshal(raw)
	if err != nil {
		return model.Problem{}, err
	}
	return codec.DecodeProblem(rec)
}

func (r *problemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const statsQuery = `
	SELECT
		(SELECT count(*) FROM problems),
		COALESCE((
			SELECT jsonb_object_agg(k, n) FROM (
				SELECT doc->>'status' AS k, count(*) AS n FROM problems
				WHERE doc->>'status' IS NOT NULL GROUP BY 1
			) s
		), '{}'::jsonb),
		COALESCE((
			SELECT jsonb_object_agg(k, n) FROM (
				SELECT doc->>'category' AS k, count(*) AS n FROM problems
				WHERE doc->>'category' IS NOT NULL GROUP BY 1
			) c
		), '{}'::jsonb)
`

// Stats computes every count in one statement, hence from one snapshot.
func (r *problemRepo) Stats(ctx context.Context) (model.Stats, error) {
	var (
		total                 int64
		byStatus, byCategory []byte
	)
	if err := r.db.QueryRow(ctx, statsQuery).Scan(&total, &byStatus, &byCategory); err != nil {
		return model.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return buildStats(total, byStatus, byCategory)
}

func buildStats(total int64, byStatus, byCategory []byte) (model.Stats, error) {
	var statuses, categories map[string]int64
	if err := json.Unmarshal(byStatus, &statuses); err != nil {
		return model.Stats{}, fmt.Errorf("decode status counts: %w", err)
	}
	if err := json.Unmarshal(byCategory, &categories); err != nil {
		return model.Stats{}, fmt.Errorf("decode category counts: %w", err)
	}

	stats := model.NewStats()
	stats.Total = total
	for k, n := range statuses {
		stats.ByStatus[model.ProblemStatus(k)] = n
	}
	for k, n := range categories {
		stats.ByCategory[model.Category(k)] = n
	}
	return stats, nil
}

// ─── Instructions ──────────────────────────────────────────────────────

type instructionRepo struct {
	db *pgxpool.Pool
}

func (r *instructionRepo) Upsert(ctx context.Context, in model.Instruction) error {
	doc, err := marshal(codec.EncodeInstruction(in))
	if err != nil {
		return err
	}
	query := `
		INSERT INTO instructions (problem_id, doc)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (problem_id) DO UPDATE SET doc = EXCLUDED.doc
	`
	_, err = r.db.Exec(ctx, query, in.ProblemID, doc)
	return translate(err)
}

func (r *instructionRepo) GetByProblem(ctx context.Context, problemID string) (model.Instruction, error) {
	var raw []byte
	if err := r.db.QueryRow(ctx, `SELECT doc FROM instructions WHERE problem_id = $1`, problemID).Scan(&raw); err != nil {
		return model.Instruction{}, translate(err)
	}
	rec, err := unmarshal(raw)
	if err != nil {
		return model.Instruction{}, err
	}
	return codec.DecodeInstruction(rec)
}

func (r *instructionRepo) DeleteByProblem(ctx context.Context, problemID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM instructions WHERE problem_id = $1`, problemID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ─── Admins ────────────────────────────────────────────────────────────

type adminRepo struct {
	db *pgxpool.Pool
}

func (r *adminRepo) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM admins ORDER BY doc->>'created_at' ASC LIMIT 1000`)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	out := []model.Admin{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := unmarshal(raw)
		if err != nil {
			return nil, err
		}
		a, err := codec.DecodeAdmin(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *adminRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&n)
	return n, err
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	var raw []byte
	if err := r.db.QueryRow(ctx, `SELECT doc FROM admins WHERE email = $1`, email).Scan(&raw); err != nil {
		return model.Admin{}, translate(err)
	}
	rec, err := unmarshal(raw)
	if err != nil {
		return model.Admin{}, err
	}
	return codec.DecodeAdmin(rec)
}

func (r *adminRepo) Create(ctx context.Context, a model.Admin) error {
	doc, err := marshal(codec.EncodeAdmin(a))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO admins (email, doc) VALUES ($1, $2::jsonb)`, a.Email, doc)
	return translate(err)
}

func (r *adminRepo) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM admins WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
