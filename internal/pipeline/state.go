package pipeline

import "fmt"

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	}
	return fmt.Sprintf("State(%d)", int32(state))
}

// Current lifecycle state
func (pipe *Pipeline) State() State {
	return State(pipe.state.Load())
}

func (pipe *Pipeline) setState(state State) {
	pipe.state.Store(int32(state))
}
