package tracing

import (
	"log"

	"github.com/sarchlab/fifoadapter/sim"
)

// CollectTrace attaches a tracer to a domain. Every task the domain starts or
// ends is forwarded to the tracer. Attaching the same tracer twice panics.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if attached(domain, tracer) {
		log.Panicf("tracer %T is already attached to %s",
			tracer, domain.Name())
	}

	domain.AcceptHook(&traceHook{tracer: tracer})
}

func attached(domain sim.Hookable, tracer Tracer) bool {
	for _, h := range domain.Hooks() {
		th, ok := h.(*traceHook)
		if ok && th.tracer == tracer {
			return true
		}
	}

	return false
}

// traceHook forwards task hooks to a tracer.
type traceHook struct {
	tracer Tracer
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(task)
	case HookPosTaskEnd:
		h.tracer.EndTask(task)
	}
}
