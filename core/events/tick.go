package events

import "github.com/kilianp07/pitwall/core/model"

// TickEvent is published after every successfully processed lap.
type TickEvent struct {
	RunID    string
	Lap      int
	Decision model.Decision
}
