package process

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/breeew/peer-api/internal/core"
	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/register"
	"github.com/breeew/peer-api/pkg/safe"
)

const activationLockKey = "activation"

func init() {
	register.RegisterFunc(ProcessKey{}, func(p *Process) {
		activation := NewActivationProcess(p.Core())
		spec := p.Core().Cfg().Activation.Cron
		if _, err := p.Cron().AddFunc(spec, func() {
			safe.Run(func() {
				activation.Run(context.Background())
			})
		}); err != nil {
			slog.Error("Failed to register activation process", slog.String("cron", spec), slog.String("error", err.Error()))
		}
	})
}

type ActivationProcess struct {
	core *core.Core
	cfg  core.Activation
}

func NewActivationProcess(core *core.Core) *ActivationProcess {
	cfg := core.Cfg().Activation
	cfg.SetDefaults()
	return &ActivationProcess{
		core: core,
		cfg:  cfg,
	}
}

type RunReport struct {
	Locked     bool
	Candidates int
	Activated  int
	Skipped    int
	Failed     int
}

// transient tells whether an activation error is worth another attempt.
func transient(err error) bool {
	return errors.HttpCode(err) >= http.StatusInternalServerError
}

// Run activates every assignment starting within the lead time. Each
// assignment is activated in its own transaction so one failure never undoes
// another.
func (p *ActivationProcess) Run(ctx context.Context) RunReport {
	var report RunReport
	begin := time.Now()
	metrics := p.core.Metrics()

	ctx, cancel := context.WithCancel(ctx)
	// releases the run lock
	defer cancel()

	if p.core.Plugins != nil {
		ttl := p.cfg.Timeout*time.Duration(p.cfg.Attempts) + time.Minute
		ok, err := p.core.TryLock(ctx, activationLockKey, ttl)
		if err != nil {
			slog.Error("Failed to acquire activation lock", slog.String("component", "ActivationProcess"), slog.String("error", err.Error()))
			metrics.ActivationRuns.WithLabelValues("error").Inc()
			return report
		}
		if !ok {
			slog.Debug("activation is running elsewhere", slog.String("component", "ActivationProcess"))
			metrics.ActivationRuns.WithLabelValues("locked").Inc()
			return report
		}
	}
	report.Locked = true

	list, err := p.core.Store().AssignmentStore().ListPendingStart(ctx, p.core.Now().Add(p.cfg.Lead))
	if err != nil {
		slog.Error("Failed to list pending assignments", slog.String("component", "ActivationProcess"), slog.String("error", err.Error()))
		metrics.ActivationRuns.WithLabelValues("error").Inc()
		return report
	}
	report.Candidates = len(list)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(p.cfg.Concurrency)
	for _, item := range list {
		assignmentID := item.ID
		g.Go(func() error {
			res, err := p.activate(ctx, assignmentID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed++
				metrics.ActivationFailures.Inc()
				slog.Error("Failed to activate assignment", slog.String("component", "ActivationProcess"),
					slog.Int64("assignment_id", assignmentID), slog.String("error", err.Error()))
			case res.Activated:
				report.Activated++
				metrics.ActivatedAssignments.Inc()
				slog.Info("assignment activated", slog.String("component", "ActivationProcess"),
					slog.Int64("assignment_id", assignmentID), slog.Int("reviews", res.Reviews))
			default:
				report.Skipped++
			}
			// siblings keep running whatever happened here
			return nil
		})
	}
	_ = g.Wait()

	result := "ok"
	if report.Failed > 0 {
		result = "partial"
	}
	metrics.ActivationRuns.WithLabelValues(result).Inc()
	metrics.ActivationDuration.Observe(time.Since(begin).Seconds())
	return report
}

func (p *ActivationProcess) activate(ctx context.Context, assignmentID int64) (v1.ActivationResult, error) {
	var res v1.ActivationResult
	err := retry.Do(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()

		var err error
		res, err = v1.ActivateAssignment(attemptCtx, p.core, assignmentID)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(p.cfg.Attempts),
		retry.Delay(p.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retry assignment activation", slog.String("component", "ActivationProcess"),
				slog.Int64("assignment_id", assignmentID), slog.Uint64("attempt", uint64(n+1)), slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return v1.ActivationResult{}, err
	}
	return res, nil
}
