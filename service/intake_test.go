package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dizegn/Prevtech-sub001/model"
)

func newTestManager() (*IntakeManager, *Catalog, *CatalogSink) {
	catalog := NewCatalog()
	sink := NewCatalogSink(catalog, nil)
	manager := NewIntakeManager(
		NewStubPublicationLookup(),
		NewStubBenefitLookup(),
		[]string{"Dr. Carlos Mendes", "Dra. Ana Paula Ferreira"},
	)
	return manager, catalog, sink
}

func TestOpenUnknownSource(t *testing.T) {
	manager, _, _ := newTestManager()

	if _, err := manager.Open("telepathy"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Expected ErrUnknownSource, got %v", err)
	}
}

func TestManagerSessionLifecycle(t *testing.T) {
	manager, _, _ := newTestManager()

	s, err := manager.Open(model.SourceManual)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := manager.Get(s.ID); err != nil {
		t.Errorf("Expected session to be retrievable: %v", err)
	}

	manager.Close(s.ID)
	if _, err := manager.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after close, got %v", err)
	}
}

func TestManualSourceSkipsLookup(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceManual)

	if err := s.Search(context.Background(), "anything"); !errors.Is(err, ErrManualSource) {
		t.Errorf("Expected ErrManualSource, got %v", err)
	}
	if view := s.Snapshot(); view.State != SearchIdle {
		t.Errorf("Manual session must stay idle, got %s", view.State)
	}
}

func TestRequiredFieldGating(t *testing.T) {
	tests := []struct {
		source string
		fields map[string]string
	}{
		{model.SourceManual, map[string]string{
			FieldCaseNumber:  "0001234-56.2024.8.26.0100",
			FieldTitle:       "Ação de Cobrança",
			FieldClient:      "João Pereira",
			FieldCourt:       "TJSP",
			FieldResponsible: "Dr. Carlos Mendes",
		}},
		{model.SourcePublication, map[string]string{
			FieldTitle:       "Ação Previdenciária",
			FieldClient:      "José Oliveira",
			FieldResponsible: "Dr. Carlos Mendes",
		}},
		{model.SourceBenefit, map[string]string{
			FieldResponsible: "Dra. Ana Paula Ferreira",
		}},
	}

	keys := map[string]string{
		model.SourcePublication: "DJE-2024-0458712",
		model.SourceBenefit:     "123.456.789-00",
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			manager, catalog, sink := newTestManager()
			s, err := manager.Open(tt.source)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			if key, ok := keys[tt.source]; ok {
				if err := s.Search(context.Background(), key); err != nil {
					t.Fatalf("Search failed: %v", err)
				}
				// Lookup sources pre-populate; clear the gated fields so the
				// predicate is exercised from empty.
				for field := range tt.fields {
					if err := s.SetField(field, ""); err != nil {
						t.Fatalf("SetField failed: %v", err)
					}
				}
			}

			// Save must be unavailable until every required field is set
			for field, value := range tt.fields {
				if _, err := s.Save(context.Background(), sink); err == nil {
					t.Fatalf("Save succeeded with %q still empty", field)
				}
				if err := s.SetField(field, value); err != nil {
					t.Fatalf("SetField failed: %v", err)
				}
			}

			before := catalog.Count()
			if _, err := s.Save(context.Background(), sink); err != nil {
				t.Fatalf("Save failed with all required fields set: %v", err)
			}
			if catalog.Count() != before+1 {
				t.Errorf("Expected one new process, got %d", catalog.Count()-before)
			}
		})
	}
}

func TestSaveWithoutRecordBlocked(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	if _, err := s.Save(context.Background(), sink); !errors.Is(err, ErrRecordRequired) {
		t.Errorf("Expected ErrRecordRequired, got %v", err)
	}
}

// Scenario: a benefit lookup by CPF seeds the session and, after choosing a
// responsible lawyer, saving appends one benefit-sourced process.
func TestBenefitIntakeEndToEnd(t *testing.T) {
	manager, catalog, sink := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	view := s.Snapshot()
	if view.State != SearchFound {
		t.Fatalf("Expected state found, got %s", view.State)
	}
	rec, ok := view.Record.(*model.BenefitRecord)
	if !ok {
		t.Fatalf("Expected a benefit record, got %T", view.Record)
	}
	if rec.Beneficiary != "Maria da Silva Santos" {
		t.Errorf("Unexpected beneficiary: %s", rec.Beneficiary)
	}
	if view.Completions[FieldClient] != "Maria da Silva Santos" {
		t.Errorf("Expected client pre-populated, got %q", view.Completions[FieldClient])
	}
	if view.Completions[FieldValue] != "15840" && view.Completions[FieldValue] != "15840.00" {
		t.Errorf("Expected value pre-populated, got %q", view.Completions[FieldValue])
	}

	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	p, err := s.Save(context.Background(), sink)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if catalog.Count() != 1 {
		t.Fatalf("Expected 1 process in catalog, got %d", catalog.Count())
	}
	if p.Source != model.SourceBenefit {
		t.Errorf("Expected source benefit, got %s", p.Source)
	}
	if p.SourceKey != "12345678900" {
		t.Errorf("Expected normalized source key, got %q", p.SourceKey)
	}
	if p.Client != "Maria da Silva Santos" {
		t.Errorf("Unexpected client: %s", p.Client)
	}
}

// Scenario: an unknown publication reference surfaces an inline message and
// leaves the session retryable without closing the workflow.
func TestPublicationNotFoundRetryable(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourcePublication)

	if err := s.Search(context.Background(), "UNKNOWN-000"); err != nil {
		t.Fatalf("Not-found must not be a transport error: %v", err)
	}

	view := s.Snapshot()
	if view.State != SearchNotFound {
		t.Fatalf("Expected state not_found, got %s", view.State)
	}
	if view.Message == "" {
		t.Error("Expected an explanatory message")
	}
	if view.Record != nil {
		t.Error("Expected no record after not-found")
	}
	if view.CanSave {
		t.Error("Save must stay disabled after not-found")
	}
	if _, err := s.Save(context.Background(), sink); err == nil {
		t.Error("Expected save to be rejected without a record")
	}

	// Retry with a valid key, no reset needed
	if err := s.Search(context.Background(), "DJE-2024-0458712"); err != nil {
		t.Fatalf("Retry search failed: %v", err)
	}
	if view := s.Snapshot(); view.State != SearchFound {
		t.Errorf("Expected state found after retry, got %s", view.State)
	}
}

func TestPublicationPopulatesCompletions(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourcePublication)

	// Keys are case-normalized, so the lowercase form resolves too
	if err := s.Search(context.Background(), "dje-2024-0458712"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	view := s.Snapshot()
	if view.QueryKey != "DJE-2024-0458712" {
		t.Errorf("Expected normalized query key, got %q", view.QueryKey)
	}
	if view.Completions[FieldCaseNumber] == "" || view.Completions[FieldTitle] == "" ||
		view.Completions[FieldCourt] == "" || view.Completions[FieldNotes] == "" {
		t.Errorf("Expected derivable fields populated, got %+v", view.Completions)
	}
}

func TestSearchBlockedWhileFound(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.Search(context.Background(), "987.654.321-00"); !errors.Is(err, ErrSearchLocked) {
		t.Errorf("Expected ErrSearchLocked, got %v", err)
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	// Nothing but punctuation normalizes to an empty key
	if err := s.Search(context.Background(), "..-"); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}
}

func TestResetClearsRecordAndCompletions(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	view := s.Snapshot()
	if view.State != SearchIdle || view.Record != nil || view.QueryKey != "" {
		t.Errorf("Expected a pristine session after reset, got %+v", view)
	}
	if len(view.Completions) != 0 {
		t.Errorf("Expected completions cleared, got %+v", view.Completions)
	}

	// The query is editable again
	if err := s.Search(context.Background(), "987.654.321-00"); err != nil {
		t.Errorf("Search after reset failed: %v", err)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceManual)

	if err := s.SetField("favorite_color", "azul"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestMalformedValueBlocksSave(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourceManual)

	fields := map[string]string{
		FieldCaseNumber:  "0001234-56.2024.8.26.0100",
		FieldTitle:       "Ação de Cobrança",
		FieldClient:      "João Pereira",
		FieldCourt:       "TJSP",
		FieldResponsible: "Dr. Carlos Mendes",
	}
	for field, value := range fields {
		if err := s.SetField(field, value); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}
	}

	for _, raw := range []string{"abc", "12,50", "-100"} {
		if err := s.SetField(FieldValue, raw); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}
		var invalid *InvalidValueError
		if _, err := s.Save(context.Background(), sink); !errors.As(err, &invalid) {
			t.Errorf("Value %q: expected InvalidValueError, got %v", raw, err)
		}
	}

	if err := s.SetField(FieldValue, "1500.75"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if _, err := s.Save(context.Background(), sink); err != nil {
		t.Errorf("Save with valid value failed: %v", err)
	}
}

func TestResponsibleMustBeInRoster(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.SetField(FieldResponsible, "Dr. Intruso"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	if _, err := s.Save(context.Background(), sink); !errors.Is(err, ErrUnknownResponsible) {
		t.Errorf("Expected ErrUnknownResponsible, got %v", err)
	}
}

func TestManualProvenance(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourceManual)

	fields := map[string]string{
		FieldCaseNumber:  "0001234-56.2024.8.26.0100",
		FieldTitle:       "Ação de Cobrança",
		FieldClient:      "João Pereira",
		FieldCourt:       "TJSP",
		FieldResponsible: "Dr. Carlos Mendes",
	}
	for field, value := range fields {
		if err := s.SetField(field, value); err != nil {
			t.Fatalf("SetField failed: %v", err)
		}
	}

	p, err := s.Save(context.Background(), sink)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Source != model.SourceManual {
		t.Errorf("Expected source manual, got %s", p.Source)
	}
	if p.SourceKey != "" {
		t.Errorf("Manual processes must carry no source key, got %q", p.SourceKey)
	}
}

// failingSink rejects every creation request.
type failingSink struct{}

func (failingSink) Create(ctx context.Context, req *CreationRequest) (*model.Process, error) {
	return nil, errors.New("persistence unavailable")
}

func TestSinkFailureKeepsCompletions(t *testing.T) {
	manager, catalog, sink := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	if _, err := s.Save(context.Background(), failingSink{}); err == nil {
		t.Fatal("Expected save to fail")
	}

	// No data loss: the session keeps its record and completions for retry
	view := s.Snapshot()
	if view.State != SearchFound {
		t.Errorf("Expected state found after failure, got %s", view.State)
	}
	if view.Completions[FieldResponsible] != "Dr. Carlos Mendes" {
		t.Errorf("Completions lost after failed save: %+v", view.Completions)
	}
	if view.Submitting {
		t.Error("Submit guard must be released after failure")
	}

	// Retry against the working sink succeeds
	if _, err := s.Save(context.Background(), sink); err != nil {
		t.Fatalf("Retry save failed: %v", err)
	}
	if catalog.Count() != 1 {
		t.Errorf("Expected 1 process after retry, got %d", catalog.Count())
	}
}

// blockingSink parks Create until released, counting invocations.
type blockingSink struct {
	started chan struct{}
	release chan struct{}
	count   int32
}

func (s *blockingSink) Create(ctx context.Context, req *CreationRequest) (*model.Process, error) {
	atomic.AddInt32(&s.count, 1)
	s.started <- struct{}{}
	<-s.release
	return &model.Process{ID: "created"}, nil
}

func TestSingleInFlightSubmit(t *testing.T) {
	manager, _, _ := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	sink := &blockingSink{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), sink)
		done <- err
	}()
	<-sink.started

	// Second save while the first is in flight
	if _, err := s.Save(context.Background(), sink); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Expected ErrSubmitInFlight, got %v", err)
	}

	close(sink.release)
	if err := <-done; err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	if got := atomic.LoadInt32(&sink.count); got != 1 {
		t.Errorf("Expected exactly 1 creation request, got %d", got)
	}
}

func TestSaveResetsSession(t *testing.T) {
	manager, _, sink := newTestManager()
	s, _ := manager.Open(model.SourceBenefit)

	if err := s.Search(context.Background(), "123.456.789-00"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if err := s.SetField(FieldResponsible, "Dr. Carlos Mendes"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if _, err := s.Save(context.Background(), sink); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	view := s.Snapshot()
	if view.State != SearchIdle || view.Record != nil || len(view.Completions) != 0 {
		t.Errorf("Expected a pristine session after save, got %+v", view)
	}
}
