package feeding

// StuffedLevel is the visual tier shown as the friend fills up.
type StuffedLevel int

const (
	LevelNone StuffedLevel = iota
	Level1
	Level2
	Level3
)

// Presentation tags. The renderer maps these to art and colors.
const (
	TagPopped  = "popped"
	TagHealing = "healing"
)

// LevelFor returns the stuffed level for a fullness count.
// Thresholds are checked highest first: 70%, 40% and 10% of MaxClicksBeforePop.
func LevelFor(count int) StuffedLevel {
	// Integer form of count >= MaxClicksBeforePop*0.7 etc.
	switch {
	case count*10 >= MaxClicksBeforePop*7:
		return Level3
	case count*10 >= MaxClicksBeforePop*4:
		return Level2
	case count*10 >= MaxClicksBeforePop*1:
		return Level1
	default:
		return LevelNone
	}
}

// Tag returns the presentation tag for the level, or "" for LevelNone.
func (l StuffedLevel) Tag() string {
	switch l {
	case Level1:
		return "stuffed-level-1"
	case Level2:
		return "stuffed-level-2"
	case Level3:
		return "stuffed-level-3"
	default:
		return ""
	}
}

// String returns a human-readable level name.
func (l StuffedLevel) String() string {
	if l == LevelNone {
		return "none"
	}
	return l.Tag()
}

// Display is the visual state of the friend, decoupled from how it is drawn.
type Display struct {
	Level   StuffedLevel
	Popped  bool
	Healing bool
}

// Tags returns the active presentation tags in a stable order.
func (d Display) Tags() []string {
	tags := make([]string, 0, 3)
	if d.Popped {
		tags = append(tags, TagPopped)
	}
	if d.Healing {
		tags = append(tags, TagHealing)
	}
	if tag := d.Level.Tag(); tag != "" {
		tags = append(tags, tag)
	}
	return tags
}

// HasTag reports whether the given presentation tag is active.
func (d Display) HasTag(tag string) bool {
	for _, t := range d.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}
