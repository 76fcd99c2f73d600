// Package selection owns a user's region selection and applies map events to
// it one at a time.
//
// The Controller is not safe for concurrent use. Callers serialize events
// through a single owner (see internal/session). Network results are fed in
// as ExternalTakenUpdated events rather than mutating state directly.
package selection

import (
	"errors"
	"log/slog"
	"time"

	"zenith/internal/territory/metrics"
	"zenith/internal/territory/models"
	"zenith/internal/territory/rules"
	dErrors "zenith/pkg/domain-errors"
)

// DefaultFlagWindow is how long a rejected toggle's reason stays visible.
const DefaultFlagWindow = 4 * time.Second

// Catalog resolves region names.
type Catalog interface {
	Lookup(name string) (models.Region, error)
}

// Event is applied to a Controller.
type Event interface {
	isEvent()
}

// Toggle selects name, or deselects it when already selected.
type Toggle struct {
	Name string
}

// Reset clears the selection.
type Reset struct{}

// ExternalTakenUpdated merges regions the registry reports as claimed.
// The first one also marks the taken set as loaded.
type ExternalTakenUpdated struct {
	Taken []string
}

// ClearFlag clears the transient flag if it is still the one identified by Seq.
type ClearFlag struct {
	Seq uint64
}

func (Toggle) isEvent()               {}
func (Reset) isEvent()                {}
func (ExternalTakenUpdated) isEvent() {}
func (ClearFlag) isEvent()            {}

// Flag is the transient "exceeding limit" notice left by a rejected toggle.
type Flag struct {
	Seq       uint64
	Region    string
	Code      dErrors.Code
	Reason    string
	ExpiresAt time.Time
}

// Result describes what an event did.
type Result struct {
	Committed bool
	Queued    bool
	Evicted   []string
	Replayed  []Replay
	Payload   models.ClaimPayload
}

// Replay is the outcome of a toggle that was queued before the taken set loaded.
type Replay struct {
	Name string
	Err  error
}

// Controller is the selection state machine.
type Controller struct {
	catalog     Catalog
	selection   models.Selection
	payload     models.ClaimPayload
	taken       map[string]struct{}
	takenLoaded bool
	pending     []Toggle
	flag        *Flag
	flagSeq     uint64
	flagWindow  time.Duration
	now         func() time.Time
	subscribers map[int]func(models.ClaimPayload)
	nextSubID   int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithFlagWindow sets how long a rejection flag is shown.
func WithFlagWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.flagWindow = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty controller. Toggles are queued until the first
// ExternalTakenUpdated arrives.
func New(catalog Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:     catalog,
		taken:       make(map[string]struct{}),
		flagWindow:  DefaultFlagWindow,
		now:         time.Now,
		subscribers: make(map[int]func(models.ClaimPayload)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Subscribe registers fn to receive the payload after every committed
// mutation. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(models.ClaimPayload)) func() {
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() { delete(c.subscribers, id) }
}

// Apply processes one event. A rejected toggle returns its error and leaves
// the selection unchanged.
func (c *Controller) Apply(ev Event) (Result, error) {
	switch e := ev.(type) {
	case Toggle:
		if !c.takenLoaded {
			c.pending = append(c.pending, e)
			if c.metrics != nil {
				c.metrics.IncrementQueued()
			}
			return Result{Queued: true, Payload: c.Payload()}, nil
		}
		return c.toggle(e.Name)
	case Reset:
		return c.reset(), nil
	case ExternalTakenUpdated:
		return c.takenUpdated(e.Taken), nil
	case ClearFlag:
		if c.flag != nil && c.flag.Seq == e.Seq {
			c.flag = nil
		}
		return Result{Payload: c.Payload()}, nil
	default:
		return Result{}, dErrors.Newf(dErrors.CodeBadRequest, "unsupported selection event %T", ev)
	}
}

func (c *Controller) toggle(name string) (Result, error) {
	region, err := c.catalog.Lookup(name)
	if err != nil {
		c.recordToggle("unknown")
		return Result{Payload: c.Payload()}, err
	}
	if _, taken := c.taken[name]; taken || !region.Active {
		c.recordToggle("unavailable")
		return Result{Payload: c.Payload()}, dErrors.Newf(dErrors.CodeRegionUnavailable, "region %q is unavailable", name)
	}

	if c.selection.Contains(name) {
		c.commit(c.selection.Without(name))
		c.recordToggle("deselected")
		return Result{Committed: true, Payload: c.Payload()}, nil
	}

	candidate := c.selection.With(region.Snapshot())
	if err := rules.ValidateSelection(candidate); err != nil {
		c.raiseFlag(name, err)
		c.recordToggle(string(dErrors.CodeOf(err)))
		return Result{Payload: c.Payload()}, err
	}
	c.commit(candidate)
	c.recordToggle("selected")
	return Result{Committed: true, Payload: c.Payload()}, nil
}

func (c *Controller) reset() Result {
	c.pending = nil
	c.flag = nil
	c.commit(models.NewSelection())
	return Result{Committed: true, Payload: c.Payload()}
}

func (c *Controller) takenUpdated(names []string) Result {
	for _, n := range names {
		c.taken[n] = struct{}{}
	}
	c.takenLoaded = true

	var res Result
	var evicted []string
	next := c.selection
	for _, name := range c.selection.Names() {
		if _, taken := c.taken[name]; taken {
			next = next.Without(name)
			evicted = append(evicted, name)
		}
	}
	if len(evicted) > 0 {
		c.logger.Info("evicting regions reported taken", "regions", evicted)
		if c.metrics != nil {
			c.metrics.IncrementEvictions(len(evicted))
		}
		c.commit(next)
		res.Committed = true
		res.Evicted = evicted
	}

	pending := c.pending
	c.pending = nil
	for _, t := range pending {
		r, err := c.toggle(t.Name)
		res.Committed = res.Committed || r.Committed
		res.Replayed = append(res.Replayed, Replay{Name: t.Name, Err: err})
	}
	res.Payload = c.Payload()
	return res
}

func (c *Controller) commit(next models.Selection) {
	c.selection = next
	c.payload = rules.Payload(next)
	c.flag = nil
	for _, fn := range c.subscribers {
		fn(c.payload.Clone())
	}
}

func (c *Controller) raiseFlag(region string, err error) {
	c.flagSeq++
	reason := err.Error()
	var de *dErrors.Error
	if errors.As(err, &de) {
		reason = de.Message
	}
	c.flag = &Flag{
		Seq:       c.flagSeq,
		Region:    region,
		Code:      dErrors.CodeOf(err),
		Reason:    reason,
		ExpiresAt: c.now().Add(c.flagWindow),
	}
}

func (c *Controller) recordToggle(outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementToggle(outcome)
	}
}

// Selection returns the current selection.
func (c *Controller) Selection() models.Selection {
	return c.selection
}

// Payload returns a copy of the current claim payload.
func (c *Controller) Payload() models.ClaimPayload {
	return c.payload.Clone()
}

// Flag returns the transient flag if it has not expired.
func (c *Controller) Flag() (Flag, bool) {
	if c.flag == nil || !c.now().Before(c.flag.ExpiresAt) {
		return Flag{}, false
	}
	return *c.flag, true
}

// FlagWindow is the display window applied to new flags.
func (c *Controller) FlagWindow() time.Duration {
	return c.flagWindow
}

// TakenLoaded reports whether a taken set has been received.
func (c *Controller) TakenLoaded() bool {
	return c.takenLoaded
}

// IsTaken reports whether name is in the last known taken set.
func (c *Controller) IsTaken(name string) bool {
	_, ok := c.taken[name]
	return ok
}

// Pending lists toggles waiting for the taken set, in arrival order.
func (c *Controller) Pending() []string {
	out := make([]string, 0, len(c.pending))
	for _, t := range c.pending {
		out = append(out, t.Name)
	}
	return out
}
