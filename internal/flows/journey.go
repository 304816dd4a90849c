// Package flows composes page capabilities into user journeys. A journey triggers an
// interaction, waits explicitly for the transient artifact it produces (a dialog, a
// suggestion list), captures it and resolves it. Page errors are returned unmodified.
package flows

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Stage is a step of a journey.
type Stage int

const (
	StageStart Stage = iota
	StageTriggeredInteraction
	StageAwaitingTransientArtifact
	StageArtifactCaptured
	StageResolved
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageTriggeredInteraction:
		return "triggered_interaction"
	case StageAwaitingTransientArtifact:
		return "awaiting_transient_artifact"
	case StageArtifactCaptured:
		return "artifact_captured"
	case StageResolved:
		return "resolved"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ErrStageSkipped is returned when a journey tries to move anywhere but the next stage.
var ErrStageSkipped = errors.New("journey stage skipped")

// StageObserver is called after every successful transition.
type StageObserver func(journey string, from, to Stage)

type options struct {
	observer StageObserver
	logger   *zap.Logger
}

// Option configures a flow.
type Option func(*options)

// WithStageObserver registers obs for every stage transition.
func WithStageObserver(obs StageObserver) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the flow logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// journey tracks one run of a flow.
type journey struct {
	name  string
	stage Stage
	opts  options
}

func (o options) start(name string) *journey {
	return &journey{name: name, stage: StageStart, opts: o}
}

// advance moves to the next stage. Any other target is ErrStageSkipped.
func (j *journey) advance(to Stage) error {
	from := j.stage
	if to != from+1 {
		return fmt.Errorf("%w: %s cannot move from %s to %s", ErrStageSkipped, j.name, from, to)
	}
	j.stage = to
	j.opts.logger.Debug("Journey advanced.",
		zap.String("journey", j.name),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	if j.opts.observer != nil {
		j.opts.observer(j.name, from, to)
	}
	return nil
}
