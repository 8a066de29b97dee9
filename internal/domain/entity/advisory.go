package entity

import (
	"strings"
	"time"
)

// Severity is the advisory level. Ordered LOW < MEDIUM < HIGH.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ParseSeverity normalizes s and reports whether it names a known level
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	switch sev {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return sev, true
	}
	return "", false
}

// Rank orders severities; unknown values rank below LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

// Advisory is a travel restriction between two named regions
type Advisory struct {
	ID           string    `json:"id" bson:"_id"`
	SourceRegion string    `json:"sourceRegion" bson:"sourceRegion"`
	TargetRegion string    `json:"targetRegion" bson:"targetRegion"`
	Severity     Severity  `json:"severity" bson:"severity"`
	Description  string    `json:"description" bson:"description"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
