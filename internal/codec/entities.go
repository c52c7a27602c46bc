package codec

import (
	"errors"
	"time"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

// Entity schemas. Field names are the stored document keys.
var (
	ProblemSchema     = NewSchema("problem", "created_at", "updated_at")
	InstructionSchema = NewSchema("instruction", "created_at")
	AdminSchema       = NewSchema("admin", "created_at")
)

// ErrMissingID is returned when a stored record has no usable identity.
var ErrMissingID = errors.New("record has no id")

// EncodeProblem converts a problem to its stored form.
func EncodeProblem(p model.Problem) Record {
	return ProblemSchema.ToStorage(Record{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"status":      string(p.Status),
		"category":    string(p.Category),
		"attachments": nonNil(p.Attachments),
		"created_by":  p.CreatedBy,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	})
}

// DecodeProblem converts a stored record to a problem. Unknown status or
// category text is carried through rather than rejected so that documents
// written by older clients stay readable.
func DecodeProblem(r Record) (model.Problem, error) {
	r = ProblemSchema.FromStorage(r)
	id := str(r, "id")
	if id == "" {
		return model.Problem{}, ErrMissingID
	}
	return model.Problem{
		ID:          id,
		Title:       str(r, "title"),
		Description: str(r, "description"),
		Status:      model.ProblemStatus(str(r, "status")),
		Category:    model.Category(str(r, "category")),
		Attachments: strSlice(r, "attachments"),
		CreatedBy:   str(r, "created_by"),
		CreatedAt:   timestamp(r, "created_at"),
		UpdatedAt:   timestamp(r, "updated_at"),
	}, nil
}

// EncodeInstruction converts an instruction to its stored form.
func EncodeInstruction(in model.Instruction) Record {
	return InstructionSchema.ToStorage(Record{
		"id":               in.ID,
		"problem_id":       in.ProblemID,
		"instruction_text": in.InstructionText,
		"images":           nonNil(in.Images),
		"created_by":       in.CreatedBy,
		"created_at":       in.CreatedAt,
	})
}

// DecodeInstruction converts a stored record to an instruction.
func DecodeInstruction(r Record) (model.Instruction, error) {
	r = InstructionSchema.FromStorage(r)
	id := str(r, "id")
	if id == "" {
		return model.Instruction{}, ErrMissingID
	}
	return model.Instruction{
		ID:              id,
		ProblemID:       str(r, "problem_id"),
		InstructionText: str(r, "instruction_text"),
		Images:          strSlice(r, "images"),
		CreatedBy:       str(r, "created_by"),
		CreatedAt:       timestamp(r, "created_at"),
	}, nil
}

// EncodeAdmin converts an admin to its stored form.
func EncodeAdmin(a model.Admin) Record {
	return AdminSchema.ToStorage(Record{
		"id":         a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"added_by":   a.AddedBy,
		"created_at": a.CreatedAt,
	})
}

// DecodeAdmin converts a stored record to an admin. Admins are keyed by
// email, so a record without an id is still accepted.
func DecodeAdmin(r Record) (model.Admin, error) {
	r = AdminSchema.FromStorage(r)
	email := str(r, "email")
	if email == "" {
		return model.Admin{}, ErrMissingID
	}
	return model.Admin{
		ID:        str(r, "id"),
		Email:     email,
		Name:      str(r, "name"),
		AddedBy:   str(r, "added_by"),
		CreatedAt: timestamp(r, "created_at"),
	}, nil
}

func str(r Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func strSlice(r Record, key string) []string {
	switch x := r[key].(type) {
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]string, 0, len(x))
		for _, v := range x {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func timestamp(r Record, key string) model.Timestamp {
	switch x := r[key].(type) {
	case model.Timestamp:
		return x
	case time.Time:
		return model.NewTimestamp(x)
	case string:
		return model.ParseTimestamp(x)
	default:
		return model.Timestamp{}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
