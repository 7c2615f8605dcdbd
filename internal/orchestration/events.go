package orchestration

import (
	"fmt"
	"math/big"
)

// EventKind distinguishes intermediate progress from the terminal result.
type EventKind uint8

const (
	// EventProgress carries a completion percentage.
	EventProgress EventKind = iota + 1
	// EventResult carries the filtered values and is always the last event.
	EventResult
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "Progress"
	case EventResult:
		return "Result"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is one message of a task's output stream.
type Event struct {
	Kind EventKind
	// Percent is set on progress events, in [0, 100].
	Percent uint8
	// Values is set on result events, in ascending index order.
	Values []*big.Int
}

// Progress builds a progress event.
func Progress(percent uint8) Event {
	return Event{Kind: EventProgress, Percent: percent}
}

// Result builds the terminal event. A nil slice is normalized to an empty one.
func Result(values []*big.Int) Event {
	if values == nil {
		values = []*big.Int{}
	}
	return Event{Kind: EventResult, Values: values}
}

// IsTerminal reports whether e is the result event.
func (e Event) IsTerminal() bool { return e.Kind == EventResult }

func (e Event) String() string {
	switch e.Kind {
	case EventProgress:
		return fmt.Sprintf("Progress(%d)", e.Percent)
	case EventResult:
		return fmt.Sprintf("Result(%d values)", len(e.Values))
	default:
		return e.Kind.String()
	}
}
