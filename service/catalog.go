package service

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrProcessNotFound is returned when an id does not resolve to a process.
var ErrProcessNotFound = errors.New("process not found")

// Catalog is the in-memory working set of process records.
// It is the only owner of process state; handlers mutate it exclusively
// through the methods below.
type Catalog struct {
	mu        sync.RWMutex
	processes map[string]*model.Process
}

func NewCatalog() *Catalog {
	return &Catalog{
		processes: make(map[string]*model.Process),
	}
}

// Insert adds a new process to the catalog, assigning a fresh id and
// timestamps. Returns the assigned id.
func (c *Catalog) Insert(p *model.Process) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	p.ID = uuid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	c.processes[p.ID] = p

	slog.Info("process inserted",
		"process_id", p.ID,
		"case_number", p.CaseNumber,
		"source", p.Source,
	)
	return p.ID
}

// Get returns the process with the given id, or nil.
func (c *Catalog) Get(id string) *model.Process {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processes[id]
}

// FilteredView returns the processes matching all four predicates:
// a case-insensitive substring match of query against case number, title
// and client, plus equality filters on status, court and tab, each
// disabled by the "all" sentinel. An empty result is a valid view.
// Results are ordered by most recent update.
func (c *Catalog) FilteredView(query, status, court, tab string) []*model.Process {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))

	view := make([]*model.Process, 0, len(c.processes))
	for _, p := range c.processes {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.CaseNumber), q) &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Client), q) {
			continue
		}
		if status != "" && status != model.FilterAll && p.Status != status {
			continue
		}
		if court != "" && court != model.FilterAll && p.Court != court {
			continue
		}
		if tab != "" && tab != model.FilterAll && p.Status != tab {
			continue
		}
		view = append(view, p)
	}

	sort.Slice(view, func(i, j int) bool {
		return view[i].UpdatedAt.After(view[j].UpdatedAt)
	})
	return view
}

// Aggregate returns the record count and the summed monetary value of a view.
func (c *Catalog) Aggregate(view []*model.Process) (int, decimal.Decimal) {
	total := decimal.Zero
	for _, p := range view {
		total = total.Add(p.Value)
	}
	return len(view), total
}

// ActiveCount counts active processes over the FULL catalog, regardless of
// any filters applied to a view. The asymmetry with Aggregate is intentional:
// the active counter on the dashboard never follows the filter bar.
func (c *Catalog) ActiveCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, p := range c.processes {
		if p.Status == model.StatusActive {
			count++
		}
	}
	return count
}

// ProcessUpdate carries the full set of mutable fields for an edit.
// Identity and provenance (id, source, source key, created-at) never change.
type ProcessUpdate struct {
	CaseNumber  string
	Title       string
	Client      string
	Court       string
	Status      string
	Phase       string
	Value       decimal.Decimal
	Responsible string
	Notes       string
	NextHearing string
}

// Replace swaps every mutable field of the target process and bumps the
// update timestamp.
func (c *Catalog) Replace(id string, upd ProcessUpdate) (*model.Process, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.processes[id]
	if !ok {
		return nil, ErrProcessNotFound
	}

	p.CaseNumber = upd.CaseNumber
	p.Title = upd.Title
	p.Client = upd.Client
	p.Court = upd.Court
	p.Status = upd.Status
	p.Phase = upd.Phase
	p.Value = upd.Value
	p.Responsible = upd.Responsible
	p.Notes = upd.Notes
	p.NextHearing = upd.NextHearing
	p.UpdatedAt = time.Now()

	return p, nil
}

// Archive transitions a process to the archived status. Archiving an
// already-archived process is a no-op, not an error; the record stays in
// the catalog either way.
func (c *Catalog) Archive(id string) (*model.Process, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.processes[id]
	if !ok {
		return nil, ErrProcessNotFound
	}

	if p.Status != model.StatusArchived {
		p.Status = model.StatusArchived
		p.UpdatedAt = time.Now()
		slog.Info("process archived", "process_id", p.ID, "case_number", p.CaseNumber)
	}
	return p, nil
}

// Courts returns the distinct courts present in the catalog, sorted.
// Used to build the court filter options.
func (c *Catalog) Courts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var courts []string
	for _, p := range c.processes {
		if p.Court != "" && !seen[p.Court] {
			seen[p.Court] = true
			courts = append(courts, p.Court)
		}
	}
	sort.Strings(courts)
	return courts
}

// Count returns the number of processes in the catalog.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.processes)
}
