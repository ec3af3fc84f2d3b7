package models

// SummaryResult reports the outcome of one summary generation attempt.
// A link that finished without a usable summary is still a processed
// link; that sub-case is carried by these booleans, not by a separate
// status value.
type SummaryResult struct {
	Summary   string `json:"summary"`
	Attempted bool   `json:"attempted"`
	Generated bool   `json:"generated"`
}
