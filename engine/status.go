package engine

import "github.com/Alia5/padmapper/binding"

// Status is an immutable view of the engine published after every tick and
// lifecycle change.
type Status struct {
	Running   bool              `json:"running"`
	Phase     string            `json:"phase"`
	Connected bool              `json:"connected"`
	Pressed   []binding.InputID `json:"pressed"`
	Asserted  []binding.InputID `json:"asserted"`
	Ticks     uint64            `json:"ticks"`
}

// Status returns the latest published status.
func (e *Engine) Status() Status {
	if s := e.status.Load(); s != nil {
		return *s
	}
	return Status{Phase: PhaseIdle.String()}
}

// Updates delivers published statuses. It holds at most one value; a value
// nobody consumed yet is replaced by the newer one.
func (e *Engine) Updates() <-chan Status { return e.updates }

func (e *Engine) publish(s Status) {
	e.status.Store(&s)
	for {
		select {
		case e.updates <- s:
			return
		default:
		}
		select {
		case <-e.updates:
		default:
		}
	}
}

func coreStatus(c *Core, running, connected bool) Status {
	return Status{
		Running:   running,
		Phase:     c.Phase().String(),
		Connected: connected,
		Pressed:   c.Pressed(),
		Asserted:  c.Asserted(),
		Ticks:     c.Ticks(),
	}
}
