package store

import (
	"context"
	"sort"
	"sync"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

// InMemoryLedger is a process-local ledger for development and tests.
type InMemoryLedger struct {
	mu       sync.RWMutex
	projects map[string]models.Project
	regions  map[string]string // region -> project name
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		projects: make(map[string]models.Project),
		regions:  make(map[string]string),
	}
}

func (l *InMemoryLedger) Taken(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.regions))
	for r := range l.regions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

func (l *InMemoryLedger) Record(_ context.Context, project models.Project) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.projects[project.Name]; ok {
		return &ConflictError{NameTaken: project.Name}
	}
	var conflicts []string
	for _, r := range project.Regions {
		if _, ok := l.regions[r]; ok {
			conflicts = append(conflicts, r)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return &ConflictError{Regions: conflicts}
	}

	project.Regions = append([]string(nil), project.Regions...)
	l.projects[project.Name] = project
	for _, r := range project.Regions {
		l.regions[r] = project.Name
	}
	return nil
}

func (l *InMemoryLedger) Get(_ context.Context, name string) (models.Project, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.projects[name]
	if !ok {
		return models.Project{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (l *InMemoryLedger) List(_ context.Context) ([]models.Project, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Project, 0, len(l.projects))
	for _, p := range l.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out, nil
}
