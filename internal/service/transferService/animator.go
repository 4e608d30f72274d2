package transferService

import (
	"sync"
	"time"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// BalanceAnimator moves the displayed balance linearly towards a target.
// Whatever happens, the displayed balance ends equal to the last target.
type BalanceAnimator struct {
	session  *model.SessionContext
	clock    clockwork.Clock
	duration time.Duration
	frame    time.Duration
	onFrame  func(balance decimal.Decimal)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewBalanceAnimator(session *model.SessionContext, clock clockwork.Clock, duration, frame time.Duration, onFrame func(decimal.Decimal)) *BalanceAnimator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BalanceAnimator{
		session:  session,
		clock:    clock,
		duration: duration,
		frame:    frame,
		onFrame:  onFrame,
	}
}

// Animate supersedes any running animation and starts a new one from the current displayed value.
// The returned channel is closed when the displayed balance reached target.
func (a *BalanceAnimator) Animate(target decimal.Decimal) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()

	done := make(chan struct{})
	from := a.session.DisplayedBalance()
	if a.duration <= 0 || a.frame <= 0 || a.frame >= a.duration || from.Equal(target) {
		a.set(target)
		close(done)
		return done
	}

	stop := make(chan struct{})
	a.stop = stop
	a.done = done

	go a.run(from, target, a.clock.Now(), stop, done)

	return done
}

// Settle stops a running animation and shows the confirmed balance immediately.
func (a *BalanceAnimator) Settle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.set(a.session.ConfirmedBalance())
}

func (a *BalanceAnimator) stopLocked() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop = nil
	a.done = nil
}

func (a *BalanceAnimator) run(from, target decimal.Decimal, startedAt time.Time, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := a.clock.NewTicker(a.frame)
	defer ticker.Stop()

	total := decimal.NewFromInt(int64(a.duration))
	delta := target.Sub(from)

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			elapsed := a.clock.Since(startedAt)
			if elapsed >= a.duration {
				a.set(target)
				return
			}
			progress := decimal.NewFromInt(int64(elapsed)).Div(total)
			a.set(from.Add(delta.Mul(progress)).Round(2))
		}
	}
}

func (a *BalanceAnimator) set(balance decimal.Decimal) {
	a.session.SetDisplayedBalance(balance)
	if a.onFrame != nil {
		a.onFrame(balance)
	}
}
