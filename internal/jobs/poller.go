// Package jobs runs the background cadence of a foregrounded app: periodic
// session re-verification and the refresh of today's appointments. Ticks do
// their work on their own contexts and hold no locks between runs.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/session"
)

// AppointmentsFetcher pulls today's consultations for the current user.
type AppointmentsFetcher func(ctx context.Context) ([]models.Consultation, error)

type Poller struct {
	cron     *cron.Cron
	cfg      config.PollConfig
	resolver *session.Resolver
	fetch    AppointmentsFetcher
	onState  func(session.ViewState)
	onToday  func([]models.Consultation)
	log      zerolog.Logger
}

func NewPoller(
	cfg config.PollConfig,
	resolver *session.Resolver,
	fetch AppointmentsFetcher,
	onState func(session.ViewState),
	onToday func([]models.Consultation),
	logger zerolog.Logger,
) *Poller {
	return &Poller{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		resolver: resolver,
		fetch:    fetch,
		onState:  onState,
		onToday:  onToday,
		log:      logger,
	}
}

func (p *Poller) Start() error {
	if _, err := p.cron.AddFunc(p.cfg.VerifySpec, p.verifyTick); err != nil {
		return err
	}
	if p.fetch != nil {
		if _, err := p.cron.AddFunc(p.cfg.AppointmentsSpec, p.appointmentsTick); err != nil {
			return err
		}
	}

	p.cron.Start()
	return nil
}

// Stop halts the schedule and waits briefly for an in-flight tick to finish.
func (p *Poller) Stop() {
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		p.log.Warn().Msg("poller stop timed out")
	}
}

func (p *Poller) verifyTick() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	vs, err := p.resolver.Resolve(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("background verification failed")
		return
	}

	p.log.Debug().Str("state", vs.Kind.String()).Msg("background verification")
	if p.onState != nil {
		p.onState(vs)
	}
}

func (p *Poller) appointmentsTick() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	today, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("appointments refresh failed")
		return
	}

	p.log.Debug().Int("count", len(today)).Msg("appointments refreshed")
	if p.onToday != nil {
		p.onToday(today)
	}
}
