package recording

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cachesim/timing/cache"
)

// An AccessHook records every request reaching the levels it is attached to.
type AccessHook struct {
	recorder *Recorder
}

// NewAccessHook creates an AccessHook writing to r.
func NewAccessHook(r *Recorder) *AccessHook {
	return &AccessHook{recorder: r}
}

// Func records the access described by ctx and ignores other events.
func (h *AccessHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	level, ok := ctx.Domain.(*cache.Level)
	if !ok {
		return
	}

	h.recorder.recordAccess(level.Name(),
		ctx.Item.(cache.Request), ctx.Detail.(cache.AccessResult))
}
