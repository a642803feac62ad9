package feeding

import (
	"strconv"
	"strings"
)

// Status messages shown under the friend.
const (
	MsgWelcome   = "Click your friend to give them a snack!"
	MsgGoodSnack = "Yum! That was a good snack."
	MsgTooFast   = "WHOA! Too fast! Friend is getting really full!"
	MsgDigesting = "Friend is digesting... you can click again soon!"
	MsgPopped    = "POP! Too much food! Game Over! Resetting..."
	MsgReset     = "Game reset! Start feeding your friend!"
)

const defaultName = "Friend"

// Messages is the set of status lines a machine shows.
type Messages struct {
	Welcome   string
	GoodSnack string
	TooFast   string
	Digesting string
	Popped    string
	Reset     string
}

// MessagesFor returns the status lines with the friend called by name.
// An empty name keeps the default wording.
func MessagesFor(name string) Messages {
	if name == "" {
		name = defaultName
	}
	return Messages{
		Welcome:   MsgWelcome,
		GoodSnack: MsgGoodSnack,
		TooFast:   strings.Replace(MsgTooFast, defaultName, name, 1),
		Digesting: strings.Replace(MsgDigesting, defaultName, name, 1),
		Popped:    MsgPopped,
		Reset:     MsgReset,
	}
}

// CounterText formats the fullness counter line.
func CounterText(count int) string {
	return "Snack-o-Meter: " + strconv.Itoa(count)
}
