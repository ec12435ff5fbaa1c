// Package events defines the engine events emitted on the event bus.
//
// Available event types:
//   - TickEvent: decision produced for a lap
//   - PitEvent: stint closed and a new one opened
//   - MandatoryStopEvent: hard tire age limit reached
package events
