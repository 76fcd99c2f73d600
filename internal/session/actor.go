package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"zenith/internal/territory/selection"
	"zenith/internal/wizard"
)

// actor owns one session's state. Only its run loop touches controller and
// machine; everything else sends closures through the mailbox.
type actor struct {
	id       uuid.UUID
	platform string
	openedAt time.Time

	controller *selection.Controller
	machine    *wizard.Machine
	takenErr   error
	fetching   bool
	armedSeq   uint64

	mailbox chan func(*actor)
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
}

func (a *actor) run(idle time.Duration, onIdle func()) {
	timer := time.NewTimer(idle)
	defer timer.Stop()
	for {
		select {
		case fn := <-a.mailbox:
			fn(a)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(idle)
		case <-timer.C:
			onIdle()
			return
		case <-a.ctx.Done():
			return
		}
	}
}

// enqueue delivers fn unless the session has closed. Safe from any goroutine.
func (a *actor) enqueue(fn func(*actor)) {
	select {
	case a.mailbox <- fn:
	case <-a.ctx.Done():
	}
}

// call runs fn on the actor and returns the resulting view.
func (a *actor) call(ctx context.Context, fn func(*actor) error) (View, error) {
	v, _, err := exec(ctx, a, func(a *actor) (struct{}, error) {
		return struct{}{}, fn(a)
	})
	return v, err
}

// exec runs fn on the actor. Its result travels back on the reply, so a
// caller that gives up early never shares memory with the run loop.
func exec[T any](ctx context.Context, a *actor, fn func(*actor) (T, error)) (View, T, error) {
	type reply struct {
		view  View
		value T
		err   error
	}
	var zero T
	done := make(chan reply, 1)
	cmd := func(a *actor) {
		val, err := fn(a)
		done <- reply{view: a.view(), value: val, err: err}
	}

	select {
	case a.mailbox <- cmd:
	case <-a.ctx.Done():
		return View{}, zero, errClosed(a.id)
	case <-ctx.Done():
		return View{}, zero, ctx.Err()
	}

	select {
	case r := <-done:
		return r.view, r.value, r.err
	case <-a.ctx.Done():
		return View{}, zero, errClosed(a.id)
	case <-ctx.Done():
		return View{}, zero, ctx.Err()
	}
}

// refreshTaken starts a non-blocking read of the taken set. The result comes
// back through the mailbox as an ExternalTakenUpdated event.
func (a *actor) refreshTaken(source TakenSource, timeout time.Duration) {
	if a.fetching {
		return
	}
	a.fetching = true
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, timeout)
		defer cancel()
		taken, err := source.CachedTakenRegions(ctx)
		a.enqueue(func(a *actor) {
			a.fetching = false
			if err != nil {
				a.takenErr = err
				a.logger.Warn("taken region read failed; toggles stay queued",
					"session_id", a.id,
					"pending", len(a.controller.Pending()),
					"error", err,
				)
				return
			}
			a.takenErr = nil
			res, _ := a.controller.Apply(selection.ExternalTakenUpdated{Taken: taken.Names()})
			for _, r := range res.Replayed {
				if r.Err != nil {
					a.logger.Debug("queued toggle rejected on replay",
						"session_id", a.id,
						"region", r.Name,
						"error", r.Err,
					)
				}
			}
			a.armFlagTimer()
		})
	}()
}

// armFlagTimer schedules the ClearFlag event for a newly raised flag.
func (a *actor) armFlagTimer() {
	f, ok := a.controller.Flag()
	if !ok || f.Seq == a.armedSeq {
		return
	}
	a.armedSeq = f.Seq
	seq := f.Seq
	time.AfterFunc(time.Until(f.ExpiresAt), func() {
		a.enqueue(func(a *actor) {
			_, _ = a.controller.Apply(selection.ClearFlag{Seq: seq})
		})
	})
}

func (a *actor) view() View {
	v := View{
		ID:          a.id,
		Platform:    a.platform,
		OpenedAt:    a.openedAt,
		Wizard:      a.machine.State(),
		Selection:   a.controller.Selection().Members(),
		Payload:     a.controller.Payload(),
		TakenLoaded: a.controller.TakenLoaded(),
		Pending:     a.controller.Pending(),
	}
	if f, ok := a.controller.Flag(); ok {
		v.Flag = &f
	}
	if a.takenErr != nil {
		v.TakenError = a.takenErr.Error()
	}
	return v
}
