package workout

import (
	"sync"

	"github.com/2beens/programtracker/internal/program"

	log "github.com/sirupsen/logrus"
)

// Machine owns a session's state and serializes every transition through
// Reduce. It is safe for concurrent use.
type Machine struct {
	mu      sync.RWMutex
	program *program.Program
	state   State
}

func NewMachine(p *program.Program, initial State) *Machine {
	return &Machine{
		program: p,
		state:   initial,
	}
}

// Dispatch applies the action and returns the new state. A nil action
// leaves the state untouched.
func (m *Machine) Dispatch(action Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action == nil {
		log.Warnln("workout machine: nil action ignored")
		return m.state
	}

	m.state = Reduce(m.program, m.state, action)
	log.Tracef("workout machine: %s applied, generation %d", action.Name(), m.state.Generation)

	return m.state
}

// State returns the current state. Callers must treat it as read-only.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Machine) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Generation
}

func (m *Machine) Program() *program.Program {
	return m.program
}
