package game

import "github.com/samdwyer/snackfriend/internal/gamedata"

// Config holds game configuration options.
type Config struct {
	// Theme is the ID of the embedded theme used to draw the friend.
	Theme string
	// Telemetry sends feeding spans to the global tracer provider when true.
	Telemetry bool
	// SessionID tags every span of this play session. A new one is
	// generated when empty.
	SessionID string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Theme:     gamedata.DefaultThemeID,
		Telemetry: true,
	}
}
