package models

import "strings"

// SummaryKind selects the prompt template and token budget of a summary.
type SummaryKind string

const (
	SummaryConcise  SummaryKind = "concise"
	SummaryNormal   SummaryKind = "normal"
	SummaryDetailed SummaryKind = "detailed"
)

// ParseSummaryKind normalizes s; anything unrecognised becomes SummaryNormal.
func ParseSummaryKind(s string) SummaryKind {
	switch SummaryKind(strings.ToLower(strings.TrimSpace(s))) {
	case SummaryConcise:
		return SummaryConcise
	case SummaryDetailed:
		return SummaryDetailed
	default:
		return SummaryNormal
	}
}

// SummaryRequest is the normalized input of a summarization call.
type SummaryRequest struct {
	Text string
	Kind SummaryKind
}
