// Package session runs wizard sessions. Each open session is a single actor
// goroutine owning its selection controller and wizard machine, so no two
// requests ever mutate the same session concurrently.
//
// Sessions have an explicit lifecycle: Open, Close, IsOpen. Closing discards
// everything; nothing leaves the process before a claim is submitted.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	platformmetrics "zenith/internal/platform/metrics"
	registry "zenith/internal/registry/models"
	selmetrics "zenith/internal/territory/metrics"
	territory "zenith/internal/territory/models"
	"zenith/internal/territory/selection"
	"zenith/internal/wizard"
	dErrors "zenith/pkg/domain-errors"
)

const (
	defaultIdleTimeout  = 30 * time.Minute
	defaultTakenTimeout = 10 * time.Second
	mailboxSize         = 16

	ReasonClosed    = "closed"
	ReasonIdle      = "idle"
	ReasonShutdown  = "shutdown"
	ReasonSubmitted = "submitted"
)

// TakenSource is the opportunistic taken-set read used to pre-mark regions.
type TakenSource interface {
	CachedTakenRegions(ctx context.Context) (registry.TakenSet, error)
}

// View is a snapshot of a session.
type View struct {
	ID          uuid.UUID                  `json:"id"`
	Platform    string                     `json:"platform,omitempty"`
	OpenedAt    time.Time                  `json:"opened_at"`
	Wizard      wizard.State               `json:"wizard"`
	Selection   []territory.SelectedRegion `json:"selection"`
	Payload     territory.ClaimPayload     `json:"claim_payload"`
	Flag        *selection.Flag            `json:"flag,omitempty"`
	TakenLoaded bool                       `json:"taken_loaded"`
	TakenError  string                     `json:"taken_error,omitempty"`
	Pending     []string                   `json:"pending"`
}

// Manager owns every open session.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*actor

	catalog   selection.Catalog
	taken     TakenSource
	submitter wizard.Submitter

	flagWindow   time.Duration
	idleTimeout  time.Duration
	takenTimeout time.Duration
	maxSessions  int

	logger     *slog.Logger
	metrics    *platformmetrics.Metrics
	selMetrics *selmetrics.Metrics
	now        func() time.Time
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(metrics *platformmetrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

func WithSelectionMetrics(metrics *selmetrics.Metrics) Option {
	return func(m *Manager) {
		m.selMetrics = metrics
	}
}

func WithFlagWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.flagWindow = d
		}
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

func WithTakenTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.takenTimeout = d
		}
	}
}

// WithMaxSessions caps concurrently open sessions. Zero means unlimited.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

func NewManager(catalog selection.Catalog, taken TakenSource, submitter wizard.Submitter, opts ...Option) *Manager {
	m := &Manager{
		sessions:     make(map[uuid.UUID]*actor),
		catalog:      catalog,
		taken:        taken,
		submitter:    submitter,
		flagWindow:   selection.DefaultFlagWindow,
		idleTimeout:  defaultIdleTimeout,
		takenTimeout: defaultTakenTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Open starts a session at the wizard's first step.
func (m *Manager) Open(ctx context.Context, platform string) (View, error) {
	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return View{}, dErrors.New(dErrors.CodeConflict, "too many open sessions")
	}

	id := uuid.New()
	actorCtx, cancel := context.WithCancel(context.Background())
	controllerOpts := []selection.Option{
		selection.WithLogger(m.logger.With("session_id", id)),
		selection.WithFlagWindow(m.flagWindow),
	}
	if m.selMetrics != nil {
		controllerOpts = append(controllerOpts, selection.WithMetrics(m.selMetrics))
	}
	a := &actor{
		id:         id,
		platform:   platform,
		openedAt:   m.now(),
		controller: selection.New(m.catalog, controllerOpts...),
		machine:    wizard.New(m.submitter, wizard.WithLogger(m.logger), wizard.WithSessionID(id)),
		mailbox:    make(chan func(*actor), mailboxSize),
		ctx:        actorCtx,
		cancel:     cancel,
		logger:     m.logger,
	}
	a.controller.Subscribe(a.machine.ReceivePayload)
	m.sessions[id] = a
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncrementSessionsOpened()
	}
	go a.run(m.idleTimeout, func() { _ = m.Close(id, ReasonIdle) })

	m.logger.InfoContext(ctx, "wizard session opened", "session_id", id, "platform", platform)
	return a.call(ctx, func(*actor) error { return nil })
}

// Close discards the session.
func (m *Manager) Close(id uuid.UUID, reason string) error {
	m.mu.Lock()
	a, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return errClosed(id)
	}

	a.cancel()
	if m.metrics != nil {
		m.metrics.IncrementSessionsClosed(reason)
	}
	m.logger.Info("wizard session closed", "session_id", id, "reason", reason)
	return nil
}

// IsOpen reports whether id names an open session.
func (m *Manager) IsOpen(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		_ = m.Close(id, ReasonShutdown)
	}
}

func (m *Manager) get(id uuid.UUID) (*actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.sessions[id]
	if !ok {
		return nil, errClosed(id)
	}
	return a, nil
}

func (m *Manager) do(ctx context.Context, id uuid.UUID, fn func(*actor) error) (View, error) {
	a, err := m.get(id)
	if err != nil {
		return View{}, err
	}
	return a.call(ctx, fn)
}

// View returns the current snapshot.
func (m *Manager) View(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(*actor) error { return nil })
}

// Next advances the wizard. At Confirm this submits the claim; a submitted
// session is discarded and the returned view is its last.
func (m *Manager) Next(ctx context.Context, id uuid.UUID, in wizard.Input) (View, error) {
	v, err := m.do(ctx, id, func(a *actor) error {
		return a.machine.Next(ctx, in)
	})
	if err == nil && v.Wizard.Step == wizard.StepSubmitted {
		_ = m.Close(id, ReasonSubmitted)
	}
	return v, err
}

// Back returns the wizard to the step that led to the current one.
func (m *Manager) Back(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(a *actor) error {
		return a.machine.Back()
	})
}

// OpenRegions opens the region sub-flow and refreshes the taken set.
func (m *Manager) OpenRegions(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(a *actor) error {
		if err := a.machine.OpenRegions(); err != nil {
			return err
		}
		a.refreshTaken(m.taken, m.takenTimeout)
		return nil
	})
}

// CloseRegions closes the sub-flow, keeping the current payload.
func (m *Manager) CloseRegions(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(a *actor) error {
		return a.machine.CloseRegions()
	})
}

// RefreshTaken re-reads the taken set, e.g. after a failed read.
func (m *Manager) RefreshTaken(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(a *actor) error {
		if !a.machine.RegionsOpen() {
			return dErrors.New(dErrors.CodeInvalidTransition, "region selection is not open")
		}
		a.refreshTaken(m.taken, m.takenTimeout)
		return nil
	})
}

// Toggle selects or deselects a region. Toggles sent before the taken set
// has loaded are queued and applied once it arrives.
func (m *Manager) Toggle(ctx context.Context, id uuid.UUID, name string) (View, selection.Result, error) {
	a, err := m.get(id)
	if err != nil {
		return View{}, selection.Result{}, err
	}
	return exec(ctx, a, func(a *actor) (selection.Result, error) {
		if !a.machine.RegionsOpen() {
			return selection.Result{}, dErrors.New(dErrors.CodeInvalidTransition, "region selection is not open")
		}
		res, err := a.controller.Apply(selection.Toggle{Name: name})
		a.armFlagTimer()
		return res, err
	})
}

// ResetSelection clears the selection.
func (m *Manager) ResetSelection(ctx context.Context, id uuid.UUID) (View, error) {
	return m.do(ctx, id, func(a *actor) error {
		if !a.machine.RegionsOpen() {
			return dErrors.New(dErrors.CodeInvalidTransition, "region selection is not open")
		}
		_, err := a.controller.Apply(selection.Reset{})
		return err
	})
}

func errClosed(id uuid.UUID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "session %s is not open", id)
}
