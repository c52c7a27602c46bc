package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

func seedProblem(t *testing.T, s *repository.Store, id, title string, status model.ProblemStatus, cat model.Category) {
	t.Helper()
	now := model.Now()
	err := s.Problems.Create(context.Background(), model.Problem{
		ID: id, Title: title, Description: "opis " + id,
		Status: status, Category: cat, Attachments: []string{},
		CreatedBy: "user@firma.pl", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create(%s): %v", id, err)
	}
}

func TestProblemCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProblem(t, s, "p1", "Brak internetu", model.StatusNew, model.CategoryNetwork)

	if err := s.Problems.Create(ctx, model.Problem{ID: "p1"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate Create err = %v, want ErrDuplicate", err)
	}

	status := model.StatusResolved
	updated, err := s.Problems.Update(ctx, "p1", repository.ProblemChanges{Status: &status, UpdatedAt: model.Now()})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != model.StatusResolved || updated.Title != "Brak internetu" {
		t.Errorf("Update result = %+v", updated)
	}

	if _, err := s.Problems.Update(ctx, "missing", repository.ProblemChanges{}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Update missing err = %v, want ErrNotFound", err)
	}

	if err := s.Problems.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Problems.GetByID(ctx, "p1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrNotFound", err)
	}
	if err := s.Problems.Delete(ctx, "p1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestProblemListAndStats(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProblem(t, s, "p1", "Drukarka HP", model.StatusNew, model.CategoryPrinters)
	seedProblem(t, s, "p2", "Outlook nie startuje", model.StatusNew, model.CategoryMail)
	seedProblem(t, s, "p3", "drukarka w sekretariacie", model.StatusResolved, model.CategoryPrinters)

	got, err := s.Problems.List(ctx, repository.ProblemFilter{Search: "drukar"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Errorf("search result = %+v", got)
	}

	got, _ = s.Problems.List(ctx, repository.ProblemFilter{Status: model.StatusNew, Category: model.CategoryPrinters})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("status+category result = %+v", got)
	}

	stats, err := s.Problems.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByStatus[model.StatusNew] != 2 || stats.ByStatus[model.StatusResolved] != 1 {
		t.Errorf("ByStatus = %v", stats.ByStatus)
	}
	if n, ok := stats.ByStatus[model.StatusInProgress]; !ok || n != 0 {
		t.Errorf("InProgress bucket = %d, %v; want zero-filled", n, ok)
	}
	if stats.ByCategory[model.CategoryPrinters] != 2 || stats.ByCategory[model.CategoryMail] != 1 {
		t.Errorf("ByCategory = %v", stats.ByCategory)
	}
}

func TestInstructionUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := model.Instruction{ID: "i1", ProblemID: "p1", InstructionText: "pierwsza", Images: []string{}, CreatedAt: model.Now()}
	second := model.Instruction{ID: "i2", ProblemID: "p1", InstructionText: "druga", Images: []string{}, CreatedAt: model.Now()}
	if err := s.Instructions.Upsert(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Instructions.Upsert(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Instructions.GetByProblem(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByProblem: %v", err)
	}
	if got.ID != "i2" || got.InstructionText != "druga" {
		t.Errorf("GetByProblem = %+v, want the most recent instruction", got)
	}

	n, err := s.Instructions.DeleteByProblem(ctx, "p1")
	if err != nil || n != 1 {
		t.Errorf("DeleteByProblem = %d, %v; want 1, nil", n, err)
	}
	n, _ = s.Instructions.DeleteByProblem(ctx, "p1")
	if n != 0 {
		t.Errorf("second DeleteByProblem = %d, want 0", n)
	}
}

func TestAdminDirectory(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := model.Admin{ID: "a1", Email: "admin@firma.pl", Name: "admin", AddedBy: "system", CreatedAt: model.Now()}
	if err := s.Admins.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Admins.Create(ctx, a); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate Create err = %v", err)
	}
	if n, _ := s.Admins.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	if err := s.Admins.DeleteByEmail(ctx, "nobody@firma.pl"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("DeleteByEmail missing err = %v", err)
	}
	if err := s.Admins.DeleteByEmail(ctx, "admin@firma.pl"); err != nil {
		t.Errorf("DeleteByEmail: %v", err)
	}
	list, _ := s.Admins.List(ctx)
	if len(list) != 0 {
		t.Errorf("List after delete = %v", list)
	}
}
