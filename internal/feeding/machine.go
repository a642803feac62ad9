package feeding

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/snackfriend/internal/telemetry"
)

// Snapshot is a copy of the machine state plus the strings to display.
type Snapshot struct {
	Phase     Phase
	Count     int
	Counter   string
	Status    string
	Display   Display
	LastClick time.Time // zero until the first click after start or reset
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used for timestamps and timers.
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithTracer sets the tracer used for feeding spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Machine) { m.tracer = t }
}

// WithName calls the friend by name in the status lines.
func WithName(name string) Option {
	return func(m *Machine) { m.msgs = MessagesFor(name) }
}

// WithSpanAttributes adds attributes to every span the machine starts,
// including those started by timer fires.
func WithSpanAttributes(attrs ...attribute.KeyValue) Option {
	return func(m *Machine) { m.attrs = append(m.attrs, attrs...) }
}

// WithObserver registers a callback invoked after every state change.
// It runs outside the machine lock and may call back into the machine.
func WithObserver(fn func(Snapshot)) Option {
	return func(m *Machine) { m.observer = fn }
}

// Machine owns the feeding state: fullness, the last click time and the one
// pending timer (either the next digest step or the post-pop reset).
type Machine struct {
	mu sync.Mutex

	clock    Clock
	tracer   trace.Tracer
	observer func(Snapshot)
	msgs     Messages
	attrs    []attribute.KeyValue

	count     int
	lastClick time.Time
	status    string
	popped    bool
	healing   bool

	pending Timer
	// gen identifies the live timer. Fires carrying an older value were
	// cancelled after delivery started and are dropped.
	gen uint64
}

// New creates a machine in its initial state.
func New(opts ...Option) *Machine {
	m := &Machine{
		clock:  SystemClock,
		tracer: telemetry.NoopTracer(),
		msgs:   MessagesFor(""),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status = m.msgs.Welcome
	return m
}

// Click feeds the friend one snack. Clicks while popped are ignored.
func (m *Machine) Click(ctx context.Context) Snapshot {
	_, span := m.startSpan(ctx, "feeding.click")
	defer span.End()

	m.mu.Lock()
	if m.popped {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("ignored", true))
		return snap
	}

	now := m.clock.Now()
	elapsed := now.Sub(m.lastClick)

	m.count++
	m.cancelLocked()
	m.healing = false

	fast := elapsed < FastClickThreshold && m.count > 1
	if fast {
		m.status = m.msgs.TooFast
	} else {
		m.status = m.msgs.GoodSnack
	}

	if m.count >= MaxClicksBeforePop {
		m.status = m.msgs.Popped
		m.popped = true
		m.scheduleLocked(PopResetDelay, m.resetAfterPop)
		span.AddEvent("feeding.pop")
	} else {
		m.scheduleLocked(HealingDelay, m.heal)
		m.lastClick = now
	}

	snap := m.snapshotLocked()
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Int("count", snap.Count),
		attribute.Bool("too_fast", fast),
		attribute.String("level", snap.Display.Level.String()),
		attribute.Bool("popped", snap.Display.Popped),
	)
	m.notify(snap)
	return snap
}

// Reset returns the machine to its initial counts and cancels any timer.
func (m *Machine) Reset(ctx context.Context) Snapshot {
	_, span := m.startSpan(ctx, "feeding.reset")
	defer span.End()

	m.mu.Lock()
	m.resetLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return snap
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Stop cancels any pending timer without changing the state. Call it when
// the session ends.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

// Pending reports whether a digest or reset timer is armed.
func (m *Machine) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// heal runs one digest step and re-arms itself while there is food left.
func (m *Machine) heal(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	if m.count <= 0 || m.popped {
		m.mu.Unlock()
		return
	}

	m.count = max(0, m.count-1)
	m.status = m.msgs.Digesting
	m.healing = true
	// Stop at zero instead of arming a fire that would do nothing.
	if m.count > 0 {
		m.scheduleLocked(HealingDelay, m.heal)
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	_, span := m.startSpan(context.Background(), "feeding.heal")
	span.SetAttributes(attribute.Int("count", snap.Count))
	span.End()

	m.notify(snap)
}

// resetAfterPop is the delayed reset scheduled when the friend pops.
func (m *Machine) resetAfterPop(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	m.mu.Unlock()

	m.Reset(context.Background())
}

func (m *Machine) resetLocked() {
	m.cancelLocked()
	m.count = 0
	m.lastClick = time.Time{}
	m.popped = false
	m.healing = false
	m.status = m.msgs.Reset
}

// scheduleLocked arms fn as the single pending timer.
func (m *Machine) scheduleLocked(d time.Duration, fn func(gen uint64)) {
	m.cancelLocked()
	gen := m.gen
	m.pending = m.clock.AfterFunc(d, func() { fn(gen) })
}

func (m *Machine) cancelLocked() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	m.gen++
}

func (m *Machine) snapshotLocked() Snapshot {
	phase := PhaseIdle
	if m.popped {
		phase = PhasePopped
	}
	return Snapshot{
		Phase:   phase,
		Count:   m.count,
		Counter: CounterText(m.count),
		Status:  m.status,
		Display: Display{
			Level:   LevelFor(m.count),
			Popped:  m.popped,
			Healing: m.healing,
		},
		LastClick: m.lastClick,
	}
}

func (m *Machine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, name, trace.WithAttributes(m.attrs...))
}

func (m *Machine) notify(snap Snapshot) {
	if m.observer != nil {
		m.observer(snap)
	}
}
