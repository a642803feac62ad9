// Package entity provides the on-screen friend the player feeds.
package entity

// Friend is the click target. X and Y are the top-left corner of its
// bounding box in screen cells.
type Friend struct {
	Name          string
	X, Y          int
	Width, Height int
}

// NewFriend creates a friend of the given size at the origin.
func NewFriend(name string, width, height int) *Friend {
	return &Friend{
		Name:   name,
		Width:  width,
		Height: height,
	}
}

// MoveTo places the friend's top-left corner at x, y.
func (f *Friend) MoveTo(x, y int) {
	f.X = x
	f.Y = y
}

// CenterIn positions the friend in the middle of a screen of the given size,
// clamped to the top-left corner when the screen is too small.
func (f *Friend) CenterIn(screenW, screenH int) {
	f.MoveTo(max(0, (screenW-f.Width)/2), max(0, (screenH-f.Height)/2))
}

// Contains reports whether the cell at x, y lies inside the friend.
func (f *Friend) Contains(x, y int) bool {
	return x >= f.X && x < f.X+f.Width &&
		y >= f.Y && y < f.Y+f.Height
}

// Position returns the current x, y coordinates.
func (f *Friend) Position() (int, int) {
	return f.X, f.Y
}
