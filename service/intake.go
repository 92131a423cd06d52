package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Search states of an intake session.
const (
	SearchIdle      = "idle"
	SearchSearching = "searching"
	SearchFound     = "found"
	SearchNotFound  = "not_found"
)

// Completion field names. These are the editable fields of a session;
// which ones are required depends on the creation source.
const (
	FieldCaseNumber  = "case_number"
	FieldTitle       = "title"
	FieldClient      = "client"
	FieldCourt       = "court"
	FieldPhase       = "phase"
	FieldValue       = "value"
	FieldResponsible = "responsible"
	FieldNotes       = "notes"
	FieldNextHearing = "next_hearing"
)

var knownFields = map[string]bool{
	FieldCaseNumber:  true,
	FieldTitle:       true,
	FieldClient:      true,
	FieldCourt:       true,
	FieldPhase:       true,
	FieldValue:       true,
	FieldResponsible: true,
	FieldNotes:       true,
	FieldNextHearing: true,
}

var (
	ErrSessionNotFound    = errors.New("intake session not found")
	ErrUnknownSource      = errors.New("unknown creation source")
	ErrUnknownField       = errors.New("unknown completion field")
	ErrEmptyQuery         = errors.New("query key must not be empty")
	ErrManualSource       = errors.New("manual source has no lookup")
	ErrSearchLocked       = errors.New("a record is already loaded; start a new search first")
	ErrLookupInFlight     = errors.New("a lookup is already in flight")
	ErrSubmitInFlight     = errors.New("a submit is already in flight")
	ErrRecordRequired     = errors.New("a fetched record is required before saving")
	ErrUnknownResponsible = errors.New("responsible must be one of the office roster")
)

// IncompleteError lists the required completion fields still empty.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "required fields missing: " + strings.Join(e.Missing, ", ")
}

// InvalidValueError flags a monetary value that cannot be parsed. Malformed
// input blocks the save instead of being coerced to zero.
type InvalidValueError struct {
	Raw string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("monetary value %q is not a valid non-negative number", e.Raw)
}

// sourceSpec parametrizes the one intake state machine per creation source.
type sourceSpec struct {
	needsLookup     bool
	normalize       func(string) string
	required        []string
	notFoundMessage string
}

var sourceSpecs = map[string]sourceSpec{
	model.SourceManual: {
		needsLookup: false,
		required:    []string{FieldCaseNumber, FieldTitle, FieldClient, FieldCourt, FieldResponsible},
	},
	model.SourcePublication: {
		needsLookup:     true,
		normalize:       NormalizePublicationKey,
		required:        []string{FieldTitle, FieldClient, FieldResponsible},
		notFoundMessage: "Nenhuma publicação encontrada para esta referência. Verifique o número e tente novamente.",
	},
	model.SourceBenefit: {
		needsLookup:     true,
		normalize:       NormalizeBenefitKey,
		required:        []string{FieldResponsible},
		notFoundMessage: "Benefício não localizado para o CPF informado. Confira os dígitos e repita a consulta.",
	},
}

// lookupFunc resolves a normalized key to the fetched record plus the
// completion fields derivable from it.
type lookupFunc func(ctx context.Context, key string) (any, map[string]string, error)

// Session is one intake workflow instance, bound to a single creation
// source for its whole lifetime. All state transitions go through its
// methods; at most one lookup and one submit may be in flight.
type Session struct {
	ID     string
	Source string

	mu          sync.Mutex
	spec        sourceSpec
	roster      []string
	lookup      lookupFunc
	queryKey    string
	state       string
	message     string
	record      any
	completions map[string]string
	submitting  bool
}

// SessionView is a read-only snapshot of a session for the API.
type SessionView struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	QueryKey    string            `json:"query_key,omitempty"`
	State       string            `json:"state"`
	Message     string            `json:"message,omitempty"`
	Submitting  bool              `json:"submitting"`
	Record      any               `json:"record,omitempty"`
	Completions map[string]string `json:"completions"`
	CanSave     bool              `json:"can_save"`
	Missing     []string          `json:"missing,omitempty"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	completions := make(map[string]string, len(s.completions))
	for k, v := range s.completions {
		completions[k] = v
	}
	missing := s.missingLocked()

	return SessionView{
		ID:          s.ID,
		Source:      s.Source,
		QueryKey:    s.queryKey,
		State:       s.state,
		Message:     s.message,
		Submitting:  s.submitting,
		Record:      s.record,
		Completions: completions,
		CanSave:     len(missing) == 0 && !s.submitting,
		Missing:     missing,
	}
}

// Search submits the query key to the source's lookup adapter. Disallowed
// for the manual source, while a record is already loaded, and while a
// previous lookup or submit is still pending.
func (s *Session) Search(ctx context.Context, key string) error {
	s.mu.Lock()
	if !s.spec.needsLookup {
		s.mu.Unlock()
		return ErrManualSource
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	switch s.state {
	case SearchSearching:
		s.mu.Unlock()
		return ErrLookupInFlight
	case SearchFound:
		s.mu.Unlock()
		return ErrSearchLocked
	}

	key = s.spec.normalize(key)
	if key == "" {
		s.mu.Unlock()
		return ErrEmptyQuery
	}

	s.queryKey = key
	s.state = SearchSearching
	s.message = ""
	lookup := s.lookup
	s.mu.Unlock()

	record, derived, err := lookup(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.record = nil
		if errors.Is(err, ErrLookupNotFound) {
			s.state = SearchNotFound
			s.message = s.spec.notFoundMessage
			return nil
		}
		s.state = SearchIdle
		return fmt.Errorf("lookup failed: %w", err)
	}

	s.state = SearchFound
	s.record = record
	for field, value := range derived {
		if value != "" {
			s.completions[field] = value
		}
	}
	return nil
}

// SetField edits a completion field. Allowed at any point except while a
// lookup or submit is pending; editing never changes the search state.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !knownFields[name] {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.state == SearchSearching {
		return ErrLookupInFlight
	}

	s.completions[name] = value
	return nil
}

// Reset is the explicit "new search" action: it clears the fetched record,
// all completions and the query key, returning the session to idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.state == SearchSearching {
		return ErrLookupInFlight
	}

	s.queryKey = ""
	s.state = SearchIdle
	s.message = ""
	s.record = nil
	s.completions = make(map[string]string)
	return nil
}

// missingLocked returns the unmet save requirements. Caller holds the lock.
func (s *Session) missingLocked() []string {
	var missing []string
	if s.spec.needsLookup && s.state != SearchFound {
		missing = append(missing, "record")
	}
	for _, field := range s.spec.required {
		if strings.TrimSpace(s.completions[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Save validates the required-field predicate, builds the creation request
// and submits it to the sink. Exactly one submit may be in flight; a sink
// failure leaves every completion intact so the user can retry.
func (s *Session) Save(ctx context.Context, sink CreationSink) (*model.Process, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if s.spec.needsLookup && s.state != SearchFound {
		s.mu.Unlock()
		return nil, ErrRecordRequired
	}
	if missing := s.missingLocked(); len(missing) > 0 {
		s.mu.Unlock()
		return nil, &IncompleteError{Missing: missing}
	}

	responsible := strings.TrimSpace(s.completions[FieldResponsible])
	if len(s.roster) > 0 && !rosterContains(s.roster, responsible) {
		s.mu.Unlock()
		return nil, ErrUnknownResponsible
	}

	value := decimal.Zero
	if raw := strings.TrimSpace(s.completions[FieldValue]); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			s.mu.Unlock()
			return nil, &InvalidValueError{Raw: raw}
		}
		value = parsed.Round(2)
	}

	req := &CreationRequest{
		Source:      s.Source,
		CaseNumber:  strings.TrimSpace(s.completions[FieldCaseNumber]),
		Title:       strings.TrimSpace(s.completions[FieldTitle]),
		Client:      strings.TrimSpace(s.completions[FieldClient]),
		Court:       strings.TrimSpace(s.completions[FieldCourt]),
		Phase:       strings.TrimSpace(s.completions[FieldPhase]),
		Value:       value,
		Responsible: responsible,
		Notes:       strings.TrimSpace(s.completions[FieldNotes]),
		NextHearing: strings.TrimSpace(s.completions[FieldNextHearing]),
	}
	if s.spec.needsLookup {
		req.SourceKey = s.queryKey
	}

	s.submitting = true
	s.mu.Unlock()

	p, err := sink.Create(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		// Completions stay untouched for retry.
		return nil, fmt.Errorf("creation failed: %w", err)
	}

	s.queryKey = ""
	s.state = SearchIdle
	s.message = ""
	s.record = nil
	s.completions = make(map[string]string)
	return p, nil
}

func rosterContains(roster []string, name string) bool {
	for _, r := range roster {
		if r == name {
			return true
		}
	}
	return false
}

// IntakeManager owns the live intake sessions and acts as the source
// selector: Open instantiates the right session variant for a source.
type IntakeManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pub      PublicationLookup
	ben      BenefitLookup
	roster   []string
}

func NewIntakeManager(pub PublicationLookup, ben BenefitLookup, roster []string) *IntakeManager {
	return &IntakeManager{
		sessions: make(map[string]*Session),
		pub:      pub,
		ben:      ben,
		roster:   roster,
	}
}

// Open creates a session for the given creation source.
func (m *IntakeManager) Open(source string) (*Session, error) {
	spec, ok := sourceSpecs[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	s := &Session{
		ID:          uuid.New().String(),
		Source:      source,
		spec:        spec,
		roster:      m.roster,
		state:       SearchIdle,
		completions: make(map[string]string),
	}
	s.lookup = m.lookupFor(source)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session with the given id.
func (m *IntakeManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close destroys a session. Used on save, cancel and modal close; no
// partial state survives across opens.
func (m *IntakeManager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// lookupFor binds a source to its adapter and its record-to-completion
// pre-population mapping.
func (m *IntakeManager) lookupFor(source string) lookupFunc {
	switch source {
	case model.SourcePublication:
		return func(ctx context.Context, key string) (any, map[string]string, error) {
			rec, err := m.pub.FindByReference(ctx, key)
			if err != nil {
				return nil, nil, err
			}
			return rec, map[string]string{
				FieldCaseNumber: rec.CaseNumber,
				FieldTitle:      rec.Title,
				FieldCourt:      rec.CourtName,
				FieldNotes:      rec.Summary,
			}, nil
		}
	case model.SourceBenefit:
		return func(ctx context.Context, key string) (any, map[string]string, error) {
			rec, err := m.ben.FindByNationalID(ctx, key)
			if err != nil {
				return nil, nil, err
			}
			notes := fmt.Sprintf("Benefício %s (%s). Tempo de contribuição: %d meses.",
				rec.CaseNumber, rec.StatusLabel, rec.ContributionMonths)
			if rec.HasCNIS {
				notes += " Extrato CNIS disponível."
			}
			return rec, map[string]string{
				FieldCaseNumber: rec.CaseNumber,
				FieldTitle:      rec.BenefitType,
				FieldClient:     rec.Beneficiary,
				FieldValue:      rec.EstimatedValue.String(),
				FieldNotes:      notes,
			}, nil
		}
	default:
		return nil
	}
}
