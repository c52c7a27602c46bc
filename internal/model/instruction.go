package model

// Instruction is the resolution attached to a problem. A problem has at
// most one instruction.
type Instruction struct {
	ID              string    `json:"id"`
	ProblemID       string    `json:"problem_id"`
	InstructionText string    `json:"instruction_text"`
	Images          []string  `json:"images"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       Timestamp `json:"created_at"`
}

// CreateInstructionRequest is the payload for resolving a problem.
type CreateInstructionRequest struct {
	ProblemID       string   `json:"problem_id" binding:"required,max=64"`
	InstructionText string   `json:"instruction_text" binding:"required"`
	Images          []string `json:"images" binding:"omitempty,dive,base64"`
	CreatedBy       string   `json:"created_by" binding:"omitempty,max=255"`
}
