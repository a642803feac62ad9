package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/snackfriend/internal/feeding"
	"github.com/samdwyer/snackfriend/internal/ui"
)

func newTestGame(t *testing.T, cfg Config) *Game {
	t.Helper()
	g, _ := newSimulatedGame(t, cfg)
	return g
}

func newSimulatedGame(t *testing.T, cfg Config) (*Game, tcell.SimulationScreen) {
	t.Helper()
	screen, sim, err := ui.NewSimulationScreen(80, 24)
	if err != nil {
		t.Fatalf("NewSimulationScreen() error: %v", err)
	}
	g, err := NewWithScreen(cfg, screen)
	if err != nil {
		screen.Close()
		t.Fatalf("NewWithScreen() error: %v", err)
	}
	g.renderer.Layout(g.friend)
	t.Cleanup(g.Close)
	return g, sim
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Telemetry = false
	return cfg
}

func press(x, y int) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone)
}

func release(x, y int) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != "classic" {
		t.Errorf("DefaultConfig().Theme = %q, want classic", cfg.Theme)
	}
	if !cfg.Telemetry {
		t.Error("DefaultConfig().Telemetry = false, want true")
	}
}

func TestNewWithUnknownTheme(t *testing.T) {
	screen, _, err := ui.NewSimulationScreen(80, 24)
	if err != nil {
		t.Fatalf("NewSimulationScreen() error: %v", err)
	}
	defer screen.Close()

	cfg := testConfig()
	cfg.Theme = "missing"
	_, err = NewWithScreen(cfg, screen)
	if err == nil {
		t.Fatal("NewWithScreen() with unknown theme should fail")
	}
	if !strings.Contains(err.Error(), "classic, blob") {
		t.Errorf("error = %q, want available themes listed", err)
	}
}

func TestClickOnFriendFeeds(t *testing.T) {
	g := newTestGame(t, testConfig())
	ctx := context.Background()
	x, y := g.friend.Position()

	g.handleEvent(ctx, press(x, y))
	if got := g.Snapshot().Count; got != 1 {
		t.Fatalf("Count after click = %d, want 1", got)
	}

	// Dragging with the button held is not a new click.
	g.handleEvent(ctx, press(x+1, y))
	if got := g.Snapshot().Count; got != 1 {
		t.Errorf("Count after drag = %d, want 1", got)
	}

	g.handleEvent(ctx, release(x+1, y))
	g.handleEvent(ctx, press(x+1, y))
	if got := g.Snapshot().Count; got != 2 {
		t.Errorf("Count after second click = %d, want 2", got)
	}
	if got := g.Snapshot().Status; got != feeding.MsgTooFast {
		t.Errorf("Status = %q, want %q", got, feeding.MsgTooFast)
	}
}

func TestClickOutsideFriendIgnored(t *testing.T) {
	g := newTestGame(t, testConfig())
	ctx := context.Background()

	g.handleEvent(ctx, press(g.friend.X+g.friend.Width, g.friend.Y))
	g.handleEvent(ctx, release(0, 0))
	g.handleEvent(ctx, press(0, 0))

	if got := g.Snapshot().Count; got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestIsQuitKey(t *testing.T) {
	tests := []struct {
		key      tcell.Key
		r        rune
		expected bool
	}{
		{tcell.KeyEscape, 0, true},
		{tcell.KeyCtrlC, 0, true},
		{tcell.KeyRune, 'q', true},
		{tcell.KeyRune, 'Q', true},
		{tcell.KeyRune, 'x', false},
		{tcell.KeyEnter, 0, false},
	}

	for _, tt := range tests {
		if got := isQuitKey(tt.key, tt.r); got != tt.expected {
			t.Errorf("isQuitKey(%v, %q) = %v, want %v", tt.key, tt.r, got, tt.expected)
		}
	}
}

func clickAt(ctx context.Context, g *Game, x, y int) {
	g.handleEvent(ctx, press(x, y))
	g.handleEvent(ctx, release(x, y))
}

// nextFire waits for a timer callback to reach the loop and runs it.
func nextFire(t *testing.T, g *Game) {
	t.Helper()
	select {
	case fire := <-g.fires:
		fire()
	case <-time.After(5 * time.Second):
		t.Fatal("no timer fire delivered")
	}
}

func TestLoopClockDeliversThroughFires(t *testing.T) {
	g := newTestGame(t, testConfig())
	clock := &loopClock{fires: g.fires, done: g.done}

	called := false
	clock.AfterFunc(time.Millisecond, func() { called = true })
	nextFire(t, g)

	if !called {
		t.Error("callback not delivered to the loop")
	}
}

func TestLoopClockStop(t *testing.T) {
	g := newTestGame(t, testConfig())
	clock := &loopClock{fires: g.fires, done: g.done}

	timer := clock.AfterFunc(time.Hour, func() {})
	if !timer.Stop() {
		t.Error("Stop() on a pending timer should return true")
	}
}

func TestPopResetSurvivesFullEventQueue(t *testing.T) {
	g, sim := newSimulatedGame(t, testConfig())
	ctx := context.Background()
	x, y := g.friend.Position()

	for i := 0; i < feeding.MaxClicksBeforePop; i++ {
		clickAt(ctx, g, x, y)
	}
	if !g.Snapshot().Display.Popped {
		t.Fatal("friend did not pop")
	}

	// Mouse motion floods the screen queue while the loop is busy.
	for i := 0; i < 100; i++ {
		_ = sim.PostEvent(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	}
	time.Sleep(feeding.PopResetDelay + 500*time.Millisecond)

	nextFire(t, g)

	snap := g.Snapshot()
	if snap.Display.Popped || snap.Count != 0 {
		t.Fatalf("after reset: Popped = %v, Count = %d", snap.Display.Popped, snap.Count)
	}
	clickAt(ctx, g, x, y)
	if got := g.Snapshot().Count; got != 1 {
		t.Errorf("Count after reset click = %d, want 1", got)
	}
}

func TestStateChangesMarkDirty(t *testing.T) {
	g := newTestGame(t, testConfig())
	ctx := context.Background()

	g.render()
	if g.dirty {
		t.Fatal("render() left the game dirty")
	}

	g.handleEvent(ctx, tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	if g.dirty {
		t.Error("plain mouse motion marked the game dirty")
	}

	x, y := g.friend.Position()
	clickAt(ctx, g, x, y)
	if !g.dirty {
		t.Error("click did not mark the game dirty")
	}
}

func TestNamedThemeStatus(t *testing.T) {
	cfg := testConfig()
	cfg.Theme = "blob"
	g := newTestGame(t, cfg)
	ctx := context.Background()
	x, y := g.friend.Position()

	clickAt(ctx, g, x, y)
	clickAt(ctx, g, x, y)
	if got := g.Snapshot().Status; got != "WHOA! Too fast! Blob is getting really full!" {
		t.Errorf("Status = %q", got)
	}
}

func TestSessionIDFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SessionID = "session-1"
	g := newTestGame(t, cfg)
	if g.sessionID != "session-1" {
		t.Errorf("sessionID = %q, want session-1", g.sessionID)
	}

	g2 := newTestGame(t, testConfig())
	if g2.sessionID == "" {
		t.Error("sessionID not generated")
	}
}

func TestCloseTwice(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.Close()
	g.Close()
}

func TestInterruptStopsGame(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.handleEvent(context.Background(), tcell.NewEventInterrupt(nil))
	if g.running {
		t.Error("interrupt did not stop the game")
	}
}

func TestRunExitsOnContextCancel(t *testing.T) {
	g := newTestGame(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
