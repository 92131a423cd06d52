package service

import (
	"context"
	"fmt"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/shopspring/decimal"
)

// CreationRequest is the finalized output of an intake session: every
// source-specific field plus the provenance tag and, for non-manual
// sources, the original lookup key.
type CreationRequest struct {
	Source      string          `json:"source"`
	SourceKey   string          `json:"source_key,omitempty"`
	CaseNumber  string          `json:"case_number"`
	Title       string          `json:"title"`
	Client      string          `json:"client"`
	Court       string          `json:"court"`
	Phase       string          `json:"phase"`
	Value       decimal.Decimal `json:"value"`
	Responsible string          `json:"responsible"`
	Notes       string          `json:"notes,omitempty"`
	NextHearing string          `json:"next_hearing,omitempty"`
}

// CreationSink accepts finalized creation requests. The catalog-backed
// implementation below is the production sink; tests substitute failing or
// blocking sinks to exercise the session's error handling.
type CreationSink interface {
	Create(ctx context.Context, req *CreationRequest) (*model.Process, error)
}

// CatalogSink appends created processes to the catalog and notifies.
type CatalogSink struct {
	catalog  *Catalog
	notifier Notifier
}

func NewCatalogSink(catalog *Catalog, notifier Notifier) *CatalogSink {
	return &CatalogSink{catalog: catalog, notifier: notifier}
}

func (s *CatalogSink) Create(ctx context.Context, req *CreationRequest) (*model.Process, error) {
	p := &model.Process{
		CaseNumber:  req.CaseNumber,
		Title:       req.Title,
		Client:      req.Client,
		Court:       req.Court,
		Status:      model.StatusActive,
		Phase:       req.Phase,
		Value:       req.Value,
		Responsible: req.Responsible,
		Notes:       req.Notes,
		Source:      req.Source,
		SourceKey:   req.SourceKey,
		NextHearing: req.NextHearing,
	}
	s.catalog.Insert(p)

	if s.notifier != nil {
		s.notifier.Success(ctx, fmt.Sprintf("Processo %s cadastrado com sucesso", p.CaseNumber))
	}
	return p, nil
}
