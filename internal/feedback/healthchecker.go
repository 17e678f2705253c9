package feedback

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-app/inkwell-diary/internal/health"
)

// GeneratorHealthChecker probes the feedback provider periodically.
type GeneratorHealthChecker struct {
	gen          Generator
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

func NewGeneratorHealthChecker(gen Generator, log zerolog.Logger, probeTimeout time.Duration) *GeneratorHealthChecker {
	hc := &GeneratorHealthChecker{
		gen:          gen,
		log:          log,
		probeTimeout: probeTimeout,
	}
	hc.healthy.Store(0)
	return hc
}

func (hc *GeneratorHealthChecker) Name() string { return "feedback" }

func (hc *GeneratorHealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

func (hc *GeneratorHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if hc.probe(checkCtx) {
			hc.healthy.Store(1)
		} else {
			hc.healthy.Store(0)
		}
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func (hc *GeneratorHealthChecker) probe(ctx context.Context) bool {
	p, ok := hc.gen.(health.HealthPinger)
	if !ok {
		// Generators without a ping hook (fakes) count as healthy.
		return true
	}
	if err := p.HealthPing(ctx); err != nil {
		hc.log.Error().Stack().
			Str("checker", hc.Name()).
			Err(err).
			Msg("feedback provider health check failed")
		return false
	}
	return true
}
