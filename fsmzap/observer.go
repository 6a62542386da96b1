// Package fsmzap logs fsmx dispatch outcomes through a zap logger.
//
// The engine core stays silent; attach an Observer to the Instances whose
// traffic you want in the application log:
//
//	inst.AddObserver(fsmzap.New[State, Event](logger))
package fsmzap

import (
	"go.uber.org/zap"

	"github.com/comalice/fsmx"
)

// Observer writes one structured entry per dispatch outcome. Transitions log
// at Info, internal dispatch at Debug, rejections at Warn.
type Observer[S, E comparable] struct {
	log *zap.Logger
}

var _ fsmx.Observer[string, string] = (*Observer[string, string])(nil)

// New creates an Observer writing to log. A nil log disables output.
func New[S, E comparable](log *zap.Logger) *Observer[S, E] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer[S, E]{log: log}
}

func (o *Observer[S, E]) Transitioned(from, to S, event E) {
	o.log.Info("state transition",
		zap.Any("from", from),
		zap.Any("to", to),
		zap.Any("event", event),
	)
}

func (o *Observer[S, E]) HandledInternally(state S, event E) {
	o.log.Debug("internal dispatch",
		zap.Any("state", state),
		zap.Any("event", event),
	)
}

func (o *Observer[S, E]) Rejected(state S, event E) {
	o.log.Warn("event rejected",
		zap.Any("state", state),
		zap.Any("event", event),
	)
}
