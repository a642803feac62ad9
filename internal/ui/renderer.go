package ui

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/snackfriend/internal/entity"
	"github.com/samdwyer/snackfriend/internal/feeding"
	"github.com/samdwyer/snackfriend/internal/gamedata"
)

// Rows needed around the friend: counter and gap above, gap and status
// below, and the hint on the last row.
const (
	rowsAbove = 2
	rowsBelow = 3
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	theme  *gamedata.ThemeDef
}

// NewRenderer creates a new renderer for the given screen and theme.
func NewRenderer(screen *Screen, theme *gamedata.ThemeDef) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

// NewFriend creates a friend sized to fit every frame of the theme's art.
func (r *Renderer) NewFriend() *entity.Friend {
	w, h := r.theme.Bounds()
	return entity.NewFriend(r.theme.Friend, w, h)
}

// Layout centres the friend for the current screen size.
func (r *Renderer) Layout(friend *entity.Friend) {
	w, h := r.screen.Size()
	friend.CenterIn(w, h)
}

// Fits reports whether the screen has room for the friend and every text line.
func (r *Renderer) Fits(friend *entity.Friend) bool {
	w, h := r.screen.Size()
	return w >= friend.Width && h >= friend.Height+rowsAbove+rowsBelow
}

// Render draws the counter, the friend in its current display state and
// the status line.
func (r *Renderer) Render(friend *entity.Friend, snap feeding.Snapshot) {
	r.screen.Clear()

	if !r.Fits(friend) {
		r.RenderMessage("Terminal too small", 0)
		r.screen.Show()
		return
	}

	textStyle := tcell.StyleDefault.Foreground(r.theme.ColorFor(gamedata.KeyText))
	friendStyle := tcell.StyleDefault.Foreground(r.theme.ColorFor(ColorKey(snap.Display)))
	if snap.Display.Popped {
		friendStyle = friendStyle.Bold(true)
	}

	r.drawCentered(snap.Counter, friend.Y-2, textStyle.Bold(true))

	for i, line := range r.theme.ArtFor(ArtKey(snap.Display)) {
		x := friend.X + (friend.Width-utf8.RuneCountInString(line))/2
		r.drawText(line, x, friend.Y+i, friendStyle)
	}

	statusY := friend.Y + friend.Height + 1
	r.drawCentered(snap.Status, statusY, textStyle)

	// The status line wins if a resize squeezes the two together.
	if _, h := r.screen.Size(); h-1 > statusY {
		r.drawCentered(Hint(friend.Name), h-1, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
	}

	r.screen.Show()
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.drawText(msg, 0, y, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

func (r *Renderer) drawCentered(msg string, y int, style tcell.Style) {
	w, _ := r.screen.Size()
	r.drawText(msg, max(0, (w-utf8.RuneCountInString(msg))/2), y, style)
}

func (r *Renderer) drawText(msg string, x, y int, style tcell.Style) {
	if y < 0 {
		return
	}
	i := 0
	for _, ch := range msg {
		r.screen.SetContent(x+i, y, ch, style)
		i++
	}
}

// Hint is the help line naming the friend.
func Hint(name string) string {
	return "click " + name + " to feed  |  q to quit"
}

// ArtKey picks which art frame shows a display state.
func ArtKey(d feeding.Display) string {
	if d.Popped {
		return gamedata.KeyPopped
	}
	if tag := d.Level.Tag(); tag != "" {
		return tag
	}
	return gamedata.KeyNormal
}

// ColorKey picks the color for a display state. Popped wins over healing,
// healing over the stuffed level.
func ColorKey(d feeding.Display) string {
	switch {
	case d.Popped:
		return gamedata.KeyPopped
	case d.Healing:
		return gamedata.KeyHealing
	case d.Level != feeding.LevelNone:
		return d.Level.Tag()
	default:
		return gamedata.KeyNormal
	}
}
