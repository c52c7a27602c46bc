package repository

import (
	"strings"

	"github.com/hdbaza/helpdesk-api/internal/codec"
	"github.com/hdbaza/helpdesk-api/internal/model"
)

// ProblemFilter narrows a problem listing. Zero fields are ignored; set
// fields combine with AND. Search matches title OR description as a literal,
// case-insensitive substring.
type ProblemFilter struct {
	Status   model.ProblemStatus
	Category model.Category
	Search   string
}

// Matches evaluates the filter in memory.
func (f ProblemFilter) Matches(p model.Problem) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

// LikePattern wraps search in % wildcards for SQL LIKE/ILIKE, escaping the
// LIKE metacharacters so the text matches literally. The escape character
// is the backslash, PostgreSQL's default.
func LikePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}

// ProblemChanges is a sparse set of field updates. Nil fields are left
// untouched.
type ProblemChanges struct {
	Title       *string
	Description *string
	Category    *model.Category
	Attachments *[]string
	Status      *model.ProblemStatus
	UpdatedAt   model.Timestamp
}

// Fields renders the changes as a stored partial record.
func (c ProblemChanges) Fields() codec.Record {
	f := codec.Record{}
	if c.Title != nil {
		f["title"] = *c.Title
	}
	if c.Description != nil {
		f["description"] = *c.Description
	}
	if c.Category != nil {
		f["category"] = string(*c.Category)
	}
	if c.Attachments != nil {
		attachments := *c.Attachments
		if attachments == nil {
			attachments = []string{}
		}
		f["attachments"] = attachments
	}
	if c.Status != nil {
		f["status"] = string(*c.Status)
	}
	if !c.UpdatedAt.IsZero() {
		f["updated_at"] = c.UpdatedAt
	}
	return codec.ProblemSchema.ToStorage(f)
}
