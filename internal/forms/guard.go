package forms

import (
	"sync/atomic"

	"voiceverse-signup/internal/models"
	"voiceverse-signup/internal/workflow"
)

// submitGuard serialises the submit path of one form. A submit that finds
// another one running, or a status that does not accept submissions, is
// rejected before it touches the buffer.
type submitGuard struct {
	running atomic.Bool
}

func (g *submitGuard) run(status func() models.Status, fn func() error) error {
	if !g.running.CompareAndSwap(false, true) {
		return workflow.ErrBusy
	}
	defer g.running.Store(false)

	if !status().AcceptsSubmit() {
		return workflow.ErrBusy
	}
	return fn()
}
