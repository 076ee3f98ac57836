package feed

import (
	"errors"
	"fmt"
	"slices"

	"github.com/umputun/aspirant/pkg/domain"
)

// State of the acquisition machine for the current category selection
type State int

// enum of states. BackgroundRefilling is display-only: it is never a machine phase, it overlaps
// with Ready and is reported as Snapshot.Refilling, guarded by its own single-flight flag.
const (
	StateIdle State = iota
	StateInitialLoading
	StateReady
	StatePaginating
	StateBackgroundRefilling
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateInitialLoading:      "initial_loading",
	StateReady:               "ready",
	StatePaginating:          "paginating",
	StateBackgroundRefilling: "background_refilling",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrInvalidTransition returned when the machine is asked to move along an edge
// missing from the transitions table
var ErrInvalidTransition = errors.New("invalid state transition")

// transitions enumerates allowed foreground edges
var transitions = map[State][]State{
	StateIdle:           {StateInitialLoading, StateReady},
	StateInitialLoading: {StateReady, StateIdle},
	StateReady:          {StatePaginating, StateInitialLoading},
	StatePaginating:     {StateReady},
}

// machine is the state of one category selection. Every category change makes a new
// machine with a new generation, async results compare generations to find out
// whether they still belong to the live selection.
type machine struct {
	category domain.Category
	gen      uint64
	phase    State
	badge    int
	err      error
}

func (m *machine) to(next State) error {
	if !slices.Contains(transitions[m.phase], next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.phase, next)
	}
	m.phase = next
	return nil
}
