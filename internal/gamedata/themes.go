package gamedata

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Keys into ThemeDef.Art and ThemeDef.Colors. Apart from KeyNormal and
// KeyText they match the presentation tags produced by the feeding package.
const (
	KeyNormal  = "normal"
	KeyLevel1  = "stuffed-level-1"
	KeyLevel2  = "stuffed-level-2"
	KeyLevel3  = "stuffed-level-3"
	KeyPopped  = "popped"
	KeyHealing = "healing"
	KeyText    = "text"
)

// DefaultThemeID is used when no theme is configured.
const DefaultThemeID = "classic"

var (
	artKeys   = []string{KeyNormal, KeyLevel1, KeyLevel2, KeyLevel3, KeyPopped}
	colorKeys = []string{KeyNormal, KeyLevel1, KeyLevel2, KeyLevel3, KeyPopped, KeyHealing, KeyText}
)

// ThemeDef defines how the friend looks, loaded from JSON.
type ThemeDef struct {
	ID     string              `json:"id"`     // Unique identifier (e.g., "classic")
	Name   string              `json:"name"`   // Display name
	Friend string              `json:"friend"` // What the friend is called on screen
	Art    map[string][]string `json:"art"`    // ASCII art per display state
	Colors map[string]string   `json:"colors"` // Hex colors per display state
}

// ThemesFile represents the structure of themes.json.
type ThemesFile struct {
	Themes []ThemeDef `json:"themes"`
}

// Validate checks that every display state has art and a parseable color.
func (t *ThemeDef) Validate() error {
	if t.ID == "" {
		return errors.New("theme has no id")
	}
	for _, key := range artKeys {
		if len(t.Art[key]) == 0 {
			return fmt.Errorf("theme %s: missing art for %s", t.ID, key)
		}
	}
	for _, key := range colorKeys {
		hex, ok := t.Colors[key]
		if !ok {
			return fmt.Errorf("theme %s: missing color for %s", t.ID, key)
		}
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("theme %s: color %s: %w", t.ID, key, err)
		}
	}
	return nil
}

// ArtFor returns the art lines for a key, falling back to the normal art.
func (t *ThemeDef) ArtFor(key string) []string {
	if art, ok := t.Art[key]; ok && len(art) > 0 {
		return art
	}
	return t.Art[KeyNormal]
}

// ColorFor returns the color for a key, or tcell.ColorDefault if unset or invalid.
func (t *ThemeDef) ColorFor(key string) tcell.Color {
	color, err := ParseHexColor(t.Colors[key])
	if err != nil {
		return tcell.ColorDefault
	}
	return color
}

// Bounds returns the width and height of the largest art frame, so the
// friend keeps a fixed click target as it changes shape.
func (t *ThemeDef) Bounds() (width, height int) {
	for _, lines := range t.Art {
		height = max(height, len(lines))
		for _, line := range lines {
			width = max(width, utf8.RuneCountInString(line))
		}
	}
	return width, height
}

// LoadThemes loads theme definitions from the embedded themes.json file.
func LoadThemes() ([]ThemeDef, error) {
	file, err := Load[ThemesFile]("themes.json")
	if err != nil {
		return nil, err
	}
	return file.Themes, nil
}

// ThemeRegistry holds loaded themes keyed by ID.
type ThemeRegistry struct {
	themes map[string]*ThemeDef
	all    []ThemeDef
}

// NewThemeRegistry creates a registry from theme definitions.
func NewThemeRegistry(themes []ThemeDef) *ThemeRegistry {
	registry := &ThemeRegistry{
		themes: make(map[string]*ThemeDef),
		all:    themes,
	}
	for i := range themes {
		registry.themes[themes[i].ID] = &themes[i]
	}
	return registry
}

// LoadThemeRegistry loads, validates and indexes the embedded themes.
func LoadThemeRegistry() (*ThemeRegistry, error) {
	themes, err := LoadThemes()
	if err != nil {
		return nil, err
	}
	if len(themes) == 0 {
		return nil, errors.New("no themes loaded from themes.json")
	}
	for i := range themes {
		if err := themes[i].Validate(); err != nil {
			return nil, err
		}
	}
	return NewThemeRegistry(themes), nil
}

// GetByID returns the theme with the given ID, or nil if not found.
func (r *ThemeRegistry) GetByID(id string) *ThemeDef {
	return r.themes[id]
}

// Default returns the default theme, or the first one loaded.
func (r *ThemeRegistry) Default() *ThemeDef {
	if t := r.GetByID(DefaultThemeID); t != nil {
		return t
	}
	if len(r.all) == 0 {
		return nil
	}
	return &r.all[0]
}

// IDs returns the IDs of all themes in file order.
func (r *ThemeRegistry) IDs() []string {
	ids := make([]string, 0, len(r.all))
	for i := range r.all {
		ids = append(ids, r.all[i].ID)
	}
	return ids
}
