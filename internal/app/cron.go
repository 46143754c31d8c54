package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/geoexplorer/core/internal/config"
	"github.com/geoexplorer/core/internal/modules/search"
	pkgcron "github.com/geoexplorer/core/internal/pkg/cron"
)

// JobMonitorSweep runs every active search term of every onboarded business
// against every active model.
const JobMonitorSweep = "monitor_sweep"

// registerCronJobs registers all scheduled background jobs. The sweep is
// opt-in; a misconfigured key would otherwise burn provider credits on a
// timer.
func registerCronJobs(sched *pkgcron.Scheduler, searchSvc *search.Service, cfg *config.AppConfig, logger *zap.Logger) {
	if !cfg.Sweep.Enable {
		return
	}

	interval := time.Duration(cfg.Sweep.IntervalHours) * time.Hour

	sched.Register(pkgcron.Job{
		Name:        JobMonitorSweep,
		Description: fmt.Sprintf("run all active search terms against all active models every %dh", cfg.Sweep.IntervalHours),
		Interval:    interval,
		Fn: func(ctx context.Context) error {
			logger.Info("monitoring sweep starting")
			if err := searchSvc.Sweep(ctx); err != nil {
				logger.Warn("monitoring sweep failed", zap.Error(err))
				return err
			}
			logger.Info("monitoring sweep finished")
			return nil
		},
	})
}
