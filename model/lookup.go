package model

import "github.com/shopspring/decimal"

// PublicationRecord is the transient result of a court-publication lookup.
// It seeds an intake session and is never persisted as-is.
type PublicationRecord struct {
	CaseNumber      string `json:"case_number"`
	Title           string `json:"title"`
	CourtCode       string `json:"court_code"`
	CourtName       string `json:"court_name"`
	PublicationDate string `json:"publication_date"` // calendar date, 2006-01-02
	Parties         string `json:"parties"`
	Summary         string `json:"summary"`
}

// BenefitRecord is the transient result of a government-benefit lookup.
type BenefitRecord struct {
	Beneficiary        string          `json:"beneficiary"`
	NationalID         string          `json:"national_id"`
	CaseNumber         string          `json:"case_number"`
	BenefitType        string          `json:"benefit_type"`
	FilingDate         string          `json:"filing_date"` // calendar date, 2006-01-02
	StatusLabel        string          `json:"status_label"`
	EstimatedValue     decimal.Decimal `json:"estimated_value"`
	ContributionMonths int             `json:"contribution_months"`
	HasCNIS            bool            `json:"has_cnis"`
}
