package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibseq/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so orchestrator goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// stateHook is installed on the orchestrator with WithStateHook. Values and
// progress still travel through the stream; only the state label is pushed.
func (r *programRef) stateHook(taskID string, s orchestration.State) {
	r.Send(StateMsg{TaskID: taskID, State: s})
}

// TickMsg drives stream polling.
type TickMsg time.Time

// StateMsg reports an orchestrator state transition.
type StateMsg struct {
	TaskID string
	State  orchestration.State
}

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
