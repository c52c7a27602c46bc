package model

// Stats is an on-demand aggregate over all problems.
type Stats struct {
	Total      int64                   `json:"total"`
	ByStatus   map[ProblemStatus]int64 `json:"by_status"`
	ByCategory map[Category]int64      `json:"by_category"`
}

// NewStats returns an empty Stats with every status bucket present.
func NewStats() Stats {
	s := Stats{
		ByStatus:   make(map[ProblemStatus]int64, len(Statuses)),
		ByCategory: make(map[Category]int64),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	return s
}

// UploadResult is the base64 pass-through of an uploaded file.
type UploadResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Base64Data  string `json:"base64_data"`
}
