// Package game provides the main event loop tying input, timers and rendering
// to the feeding machine.
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/snackfriend/internal/entity"
	"github.com/samdwyer/snackfriend/internal/feeding"
	"github.com/samdwyer/snackfriend/internal/gamedata"
	"github.com/samdwyer/snackfriend/internal/telemetry"
	"github.com/samdwyer/snackfriend/internal/ui"
)

// Game holds the entire game state.
type Game struct {
	screen    *ui.Screen
	renderer  *ui.Renderer
	theme     *gamedata.ThemeDef
	friend    *entity.Friend
	machine   *feeding.Machine
	sessionID string
	running   bool

	// fires carries timer callbacks to the loop; done stops pending sends.
	fires     chan func()
	done      chan struct{}
	closeOnce sync.Once

	// dirty is set by the machine observer and by layout changes.
	dirty bool
	// buttons is the last seen mouse button state, for press detection.
	buttons tcell.ButtonMask
}

// New creates a new game on the terminal.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g, err := NewWithScreen(cfg, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithScreen creates a game drawing to an already initialized screen.
func NewWithScreen(cfg Config, screen *ui.Screen) (*Game, error) {
	themes, err := gamedata.LoadThemeRegistry()
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	theme := themes.GetByID(cfg.Theme)
	if theme == nil {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(themes.IDs(), ", "))
	}

	var tracer trace.Tracer
	if cfg.Telemetry {
		tracer = telemetry.Tracer("feeding")
	} else {
		tracer = telemetry.NoopTracer()
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = telemetry.NewSessionID()
	}

	renderer := ui.NewRenderer(screen, theme)
	g := &Game{
		screen:    screen,
		renderer:  renderer,
		theme:     theme,
		friend:    renderer.NewFriend(),
		sessionID: sessionID,
		running:   true,
		fires:     make(chan func()),
		done:      make(chan struct{}),
		dirty:     true,
	}
	g.machine = feeding.New(
		feeding.WithClock(&loopClock{fires: g.fires, done: g.done}),
		feeding.WithTracer(tracer),
		feeding.WithName(theme.Friend),
		feeding.WithSpanAttributes(telemetry.SessionAttr(sessionID)),
		feeding.WithObserver(func(feeding.Snapshot) { g.dirty = true }),
	)
	return g, nil
}

// Run executes the main game loop until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, initSpan := tracer.Start(ctx, "game.init")
	g.renderer.Layout(g.friend)
	initSpan.SetAttributes(
		telemetry.SessionAttr(g.sessionID),
		attribute.String("theme", g.theme.ID),
		attribute.Int("friend.width", g.friend.Width),
		attribute.Int("friend.height", g.friend.Height),
	)
	initSpan.End()

	events := g.screen.Events(g.done)
	for g.running {
		g.render()

		select {
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case fire := <-g.fires:
			fire()
		case <-ctx.Done():
			g.running = false
		}
	}

	g.Close()
	return nil
}

// render draws the current machine state if anything changed.
func (g *Game) render() {
	if !g.dirty {
		return
	}
	g.dirty = false
	g.renderer.Render(g.friend, g.machine.Snapshot())
}

// handleEvent processes a single event from the screen.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		g.handleMouseEvent(ctx, ev)
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.renderer.Layout(g.friend)
		g.screen.Sync()
		g.dirty = true
	case *tcell.EventInterrupt:
		g.running = false
	}
}

// handleMouseEvent feeds the friend on a left-button press inside it.
// Motion with the button held does not count as another click.
func (g *Game) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && g.buttons&tcell.Button1 == 0
	g.buttons = buttons
	if !pressed {
		return
	}

	x, y := ev.Position()
	if g.friend.Contains(x, y) {
		g.machine.Click(ctx)
	}
}

// handleKeyEvent processes keyboard input. Keys only control the process.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	if isQuitKey(ev.Key(), ev.Rune()) {
		g.running = false
	}
}

// isQuitKey reports whether a key press should end the session.
func isQuitKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return r == 'q' || r == 'Q'
	default:
		return false
	}
}

// Snapshot returns the feeding state currently shown.
func (g *Game) Snapshot() feeding.Snapshot {
	return g.machine.Snapshot()
}

// Close cancels pending timers and cleans up game resources.
// It is safe to call more than once.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		g.machine.Stop()
		close(g.done)
		g.screen.Close()
	})
}
