package cache

import (
	"io"
	"log"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosAccess marks the end of a request. The hook Item is the Request and
// the Detail is the AccessResult.
var HookPosAccess = &sim.HookPos{Name: "CacheAccess"}

// HookPosWriteBack marks a dirty block leaving the level. The Item is the
// address written back.
var HookPosWriteBack = &sim.HookPos{Name: "CacheWriteBack"}

// HookPosPrefetch marks a stream buffer requesting a block. The Item is the
// block address.
var HookPosPrefetch = &sim.HookPos{Name: "CachePrefetch"}

// An AccessLogger is a hook that prints every access, write-back and
// prefetch of the levels it is attached to.
type AccessLogger struct {
	logger *log.Logger
}

// NewAccessLogger creates an AccessLogger writing to w.
func NewAccessLogger(w io.Writer) *AccessLogger {
	return &AccessLogger{
		logger: log.New(w, "", 0),
	}
}

// Func prints the event described by ctx.
func (h *AccessLogger) Func(ctx sim.HookCtx) {
	name := "?"
	if level, ok := ctx.Domain.(*Level); ok {
		name = level.Name()
	}

	switch ctx.Pos {
	case HookPosAccess:
		req := ctx.Item.(Request)
		result := ctx.Detail.(AccessResult)
		h.logger.Printf("%s, %s, %x, %s\n", name, req.Kind(), req.Address,
			result.outcome())
	case HookPosWriteBack:
		h.logger.Printf("%s, writeback, %x\n", name, ctx.Item.(uint32))
	case HookPosPrefetch:
		h.logger.Printf("%s, prefetch, %x\n", name, ctx.Item.(uint32))
	}
}
