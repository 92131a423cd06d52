package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Process represents a tracked legal case handled by the office.
type Process struct {
	ID          string          `json:"id"`
	CaseNumber  string          `json:"case_number"`
	Title       string          `json:"title"`
	Client      string          `json:"client"`
	Court       string          `json:"court"`
	Status      string          `json:"status"` // ativo, arquivado, suspenso, sentenciado
	Phase       string          `json:"phase"`
	Value       decimal.Decimal `json:"value"`
	Responsible string          `json:"responsible"`
	Notes       string          `json:"notes,omitempty"`
	Source      string          `json:"source"` // manual, publication, benefit
	SourceKey   string          `json:"source_key,omitempty"`
	NextHearing string          `json:"next_hearing,omitempty"` // calendar date, 2006-01-02
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Process status constants
const (
	StatusActive      = "ativo"
	StatusArchived    = "arquivado"
	StatusSuspended   = "suspenso"
	StatusAdjudicated = "sentenciado"
)

// Creation source constants
const (
	SourceManual      = "manual"
	SourcePublication = "publication"
	SourceBenefit     = "benefit"
)

// FilterAll is the sentinel that disables a status/court/tab filter.
const FilterAll = "all"

// ValidStatus reports whether s is one of the known process statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusArchived, StatusSuspended, StatusAdjudicated:
		return true
	}
	return false
}

// ValidSource reports whether s is one of the known creation sources.
func ValidSource(s string) bool {
	switch s {
	case SourceManual, SourcePublication, SourceBenefit:
		return true
	}
	return false
}

func init() {
	// Monetary values travel as plain decimal numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
