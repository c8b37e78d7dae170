// Package jobs runs the background maintenance tasks (cron).
package jobs

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/services"
)

// Scheduler owns the cron loop. One sweep walks promoted registrations whose
// payment window lapsed and hands their slots down the waitlist.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.WorkflowConfig
	waitlist *services.WaitlistService
}

func NewScheduler(cfg *config.WorkflowConfig, waitlist *services.WaitlistService) *Scheduler {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		waitlist: waitlist,
	}
}

// defaultSweepSpec is the known-good schedule used when the configured
// spec does not parse.
const defaultSweepSpec = "@every 1m"

// Start registers the jobs and begins the loop.
func (s *Scheduler) Start() {
	spec := s.cfg.WaitlistSweepSpec
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		log.WithError(err).Errorf("[CRON] Invalid waitlist sweep spec %q, falling back to %q", spec, defaultSweepSpec)
		spec = defaultSweepSpec
		s.cron.AddFunc(spec, s.sweep)
	}

	s.cron.Start()
	log.Infof("Job scheduler started (waitlist sweep %q)", spec)
}

func (s *Scheduler) sweep() {
	log.Debug("[CRON] Sweeping lapsed waitlist promotions")
	s.waitlist.SweepExpiredPromotions()
}

// Stop halts the loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}
