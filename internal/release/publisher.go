// Package release republishes locally built service images to a remote
// registry under a release tag.
//
// A run is strictly sequential: services in catalogue order, the standard
// variant before the debug variant, tag before push. The first failing image
// store call aborts the run. Nothing already pushed is rolled back.
package release

import (
	"context"
	"fmt"
	"slices"

	"github.com/schmitthub/relpub/internal/logger"
)

// ImageStore is the container runtime capability used to publish images.
type ImageStore interface {
	// Tag makes target refer to the same image as source.
	Tag(ctx context.Context, source, target ImageReference) error
	// Push uploads target to its registry.
	Push(ctx context.Context, target ImageReference) error
}

// StepFunc is called after each step completes successfully.
type StepFunc func(step Step, total int)

// Option configures a Publisher.
type Option func(*Publisher)

// WithStepFunc registers a callback invoked after every completed step.
func WithStepFunc(fn StepFunc) Option {
	return func(p *Publisher) {
		p.onStep = fn
	}
}

// Publisher tags and pushes a fixed catalogue of service images.
type Publisher struct {
	store    ImageStore
	services []string
	naming   Naming
	onStep   StepFunc
}

// NewPublisher creates a Publisher for the given ordered service catalogue.
func NewPublisher(store ImageStore, services []string, naming Naming, opts ...Option) *Publisher {
	p := &Publisher{
		store:    store,
		services: slices.Clone(services),
		naming:   naming,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Services returns the catalogue in publishing order.
func (p *Publisher) Services() []string {
	return slices.Clone(p.services)
}

// Plan returns the steps Publish would run for releaseTag without running them.
func (p *Publisher) Plan(releaseTag string) (Plan, error) {
	return NewPlan(p.services, p.naming, releaseTag)
}

// Publish tags and pushes every service variant under releaseTag.
// It stops at the first failing step and returns a *StepError describing it.
func (p *Publisher) Publish(ctx context.Context, releaseTag string) error {
	plan, err := p.Plan(releaseTag)
	if err != nil {
		return err
	}

	total := plan.Len()
	logger.Info().
		Int("services", len(p.services)).
		Int("steps", total).
		Msg("publishing release")

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publishing interrupted before step %d/%d: %w", step.Position, total, err)
		}

		logger.Debug().
			Int("step", step.Position).
			Str("op", string(step.Kind)).
			Str("service", step.Service).
			Str("variant", step.Variant.String()).
			Str("target", step.Target.String()).
			Msg("running step")

		if err := p.run(ctx, step); err != nil {
			logger.Error().
				Err(err).
				Int("step", step.Position).
				Str("op", string(step.Kind)).
				Str("target", step.Target.String()).
				Msg("step failed, aborting release")
			return &StepError{Step: step, Total: total, Err: err}
		}

		if step.Kind == StepPush {
			logger.Info().
				Str("service", step.Service).
				Str("variant", step.Variant.String()).
				Str("image", step.Target.String()).
				Msg("pushed")
		}
		if p.onStep != nil {
			p.onStep(step, total)
		}
	}

	logger.Info().Int("services", len(p.services)).Msg("release published")
	return nil
}

func (p *Publisher) run(ctx context.Context, step Step) error {
	switch step.Kind {
	case StepTag:
		return p.store.Tag(ctx, step.Source, step.Target)
	case StepPush:
		return p.store.Push(ctx, step.Target)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}
