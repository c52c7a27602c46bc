package model

import "fmt"

// ProblemStatus enumerates ticket lifecycle states. Wire values are the
// Polish labels the helpdesk frontend displays.
type ProblemStatus string

const (
	StatusNew        ProblemStatus = "Nowy"
	StatusInProgress ProblemStatus = "W toku"
	StatusResolved   ProblemStatus = "Rozwiązany"
)

// Statuses lists every status in lifecycle order.
var Statuses = []ProblemStatus{StatusNew, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the declared statuses.
func (s ProblemStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ParseStatus converts wire text to a ProblemStatus.
func ParseStatus(raw string) (ProblemStatus, error) {
	s := ProblemStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown problem status %q", raw)
	}
	return s, nil
}

// Category enumerates ticket categories. The set is the union of the
// Microsoft 365 oriented categories and the hardware/software/network ones.
type Category string

const (
	CategoryWindows  Category = "Windows"
	CategoryPrinters Category = "Drukarki"
	CategoryMail     Category = "Poczta"
	CategoryOneDrive Category = "OneDrive"
	CategoryHardware Category = "Sprzęt"
	CategorySoftware Category = "Oprogramowanie"
	CategoryNetwork  Category = "Sieć"
	CategoryOther    Category = "Inne"
)

// Categories lists every category.
var Categories = []Category{
	CategoryWindows, CategoryPrinters, CategoryMail, CategoryOneDrive,
	CategoryHardware, CategorySoftware, CategoryNetwork, CategoryOther,
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWindows, CategoryPrinters, CategoryMail, CategoryOneDrive,
		CategoryHardware, CategorySoftware, CategoryNetwork, CategoryOther:
		return true
	}
	return false
}

// ParseCategory converts wire text to a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown problem category %q", raw)
	}
	return c, nil
}

// Problem is a support ticket.
type Problem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProblemStatus `json:"status"`
	Category    Category      `json:"category"`
	Attachments []string      `json:"attachments"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   Timestamp     `json:"created_at"`
	UpdatedAt   Timestamp     `json:"updated_at"`
}

// CreateProblemRequest is the payload for submitting a ticket.
// CreatedBy falls back to the caller's identity when omitted.
type CreateProblemRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required,max=10000"`
	Category    Category `json:"category" binding:"required,problem_category"`
	Attachments []string `json:"attachments" binding:"omitempty,dive,base64"`
	CreatedBy   string   `json:"created_by" binding:"omitempty,max=255"`
}

// UpdateProblemRequest is a sparse update: nil fields are left untouched.
type UpdateProblemRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=10000"`
	Category    *Category `json:"category" binding:"omitempty,problem_category"`
	Attachments *[]string `json:"attachments" binding:"omitempty,dive,base64"`
}

// UpdateStatusRequest is the payload for an explicit status override.
type UpdateStatusRequest struct {
	Status ProblemStatus `json:"status" binding:"required,problem_status"`
}
