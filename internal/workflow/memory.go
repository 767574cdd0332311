package workflow

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"arts.org/internal/ids"
)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and by deployments without a database DSN.
type InMemory struct {
	mu          sync.RWMutex
	departments map[string]*Department
	recs        map[string]*Recommendation
	plans       map[string]*ActionPlan
	evidence    map[string]*Evidence
	log         []*LogEntry
}

// NewInMemory creates an empty workflow store.
func NewInMemory() *InMemory {
	return &InMemory{
		departments: make(map[string]*Department),
		recs:        make(map[string]*Recommendation),
		plans:       make(map[string]*ActionPlan),
		evidence:    make(map[string]*Evidence),
	}
}

var (
	_ Store           = (*InMemory)(nil)
	_ StatusCommitter = (*InMemory)(nil)
)

func (s *InMemory) Departments(ctx context.Context) DepartmentStore { return memDepartments{s} }
func (s *InMemory) Recommendations(ctx context.Context) RecommendationStore {
	return memRecommendations{s}
}
func (s *InMemory) Plans(ctx context.Context) PlanStore        { return memPlans{s} }
func (s *InMemory) Evidence(ctx context.Context) EvidenceStore { return memEvidence{s} }
func (s *InMemory) Log(ctx context.Context) LogStore           { return memLog{s} }

// CommitStatus applies the status change and history entry under one lock.
func (s *InMemory) CommitStatus(ctx context.Context, id string, status Status, entry *LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	cp := *entry
	s.log = append(s.log, &cp)
	return nil
}

type memDepartments struct{ s *InMemory }

func (m memDepartments) Create(ctx context.Context, d *Department) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *d
	m.s.departments[d.ID] = &cp
	return nil
}

func (m memDepartments) Find(ctx context.Context, id string) (*Department, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	d, ok := m.s.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m memDepartments) List(ctx context.Context) ([]*Department, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*Department, 0, len(m.s.departments))
	for _, d := range m.s.departments {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memRecommendations struct{ s *InMemory }

func (m memRecommendations) Create(ctx context.Context, r *Recommendation) error {
	if r.ID == "" {
		r.ID = ids.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *r
	m.s.recs[r.ID] = &cp
	return nil
}

func (m memRecommendations) Find(ctx context.Context, id string) (*Recommendation, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	r, ok := m.s.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m memRecommendations) List(ctx context.Context, f Filter) ([]*Recommendation, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.TitleQuery))
	out := make([]*Recommendation, 0)
	for _, r := range m.s.recs {
		if f.DepartmentID != "" && r.DepartmentID != f.DepartmentID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Title), q) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m memRecommendations) SetStatus(ctx context.Context, id string, status Status) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.recs[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

func (m memRecommendations) CountByStatus(ctx context.Context, departmentID string) (map[Status]int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	counts := make(map[Status]int)
	for _, r := range m.s.recs {
		if departmentID != "" && r.DepartmentID != departmentID {
			continue
		}
		counts[r.Status]++
	}
	return counts, nil
}

type memPlans struct{ s *InMemory }

func (m memPlans) Create(ctx context.Context, p *ActionPlan) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *p
	m.s.plans[p.ID] = &cp
	return nil
}

func (m memPlans) Find(ctx context.Context, id string) (*ActionPlan, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m memPlans) ListByRecommendation(ctx context.Context, recommendationID string) ([]*ActionPlan, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*ActionPlan, 0)
	for _, p := range m.s.plans {
		if p.RecommendationID != recommendationID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memPlans) List(ctx context.Context, f PlanFilter) ([]*ActionPlan, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*ActionPlan, 0)
	for _, p := range m.s.plans {
		if f.AssignedTo != "" && p.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m memPlans) SetStatus(ctx context.Context, id string, status PlanStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.plans[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

type memEvidence struct{ s *InMemory }

func (m memEvidence) Create(ctx context.Context, e *Evidence) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *e
	m.s.evidence[e.ID] = &cp
	return nil
}

func (m memEvidence) Find(ctx context.Context, id string) (*Evidence, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	e, ok := m.s.evidence[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m memEvidence) ListByPlan(ctx context.Context, planID string) ([]*Evidence, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*Evidence, 0)
	for _, e := range m.s.evidence {
		if e.ActionPlanID != planID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memEvidence) SetReviewStatus(ctx context.Context, id string, status ReviewStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.evidence[id]
	if !ok {
		return ErrNotFound
	}
	e.ReviewStatus = status
	return nil
}

type memLog struct{ s *InMemory }

func (m memLog) Append(ctx context.Context, entry *LogEntry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *entry
	m.s.log = append(m.s.log, &cp)
	return nil
}

func (m memLog) ListByRecommendation(ctx context.Context, recommendationID string) ([]*LogEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*LogEntry, 0)
	for _, e := range m.s.log {
		if e.RecommendationID != recommendationID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}
