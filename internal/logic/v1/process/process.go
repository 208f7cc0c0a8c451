package process

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/pkg/register"
)

type Process struct {
	cron *cron.Cron
	core *core.Core
}

type ProcessKey struct{}

// NewProcess builds the scheduler and lets every registered process add its
// cron entries.
func NewProcess(core *core.Core) *Process {
	p := &Process{
		cron: cron.New(),
		core: core,
	}

	for _, h := range register.ResolveFuncHandlers[*Process](ProcessKey{}) {
		h(p)
	}

	return p
}

func (p *Process) Cron() *cron.Cron {
	return p.cron
}

func (p *Process) Core() *core.Core {
	return p.core
}

func (p *Process) Start() {
	p.cron.Start()
}

// Stop halts scheduling, the returned context is done once running jobs end.
func (p *Process) Stop() context.Context {
	return p.cron.Stop()
}
