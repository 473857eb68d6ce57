package system

import (
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/logger"
	"github.com/sirupsen/logrus"
)

// Cue names raised by agents. Animation and audio collaborators key off them.
const (
	CuePatrolStarted      = "patrol-started"
	CueChaseStarted       = "chase-started"
	CueInvestigateStarted = "investigate-started"
	CueShootStarted       = "shoot-started"
	CueProjectileFired    = "projectile-fired"
	CueChargeStarted      = "charge-started"
	CueChargeEnded        = "charge-ended"
	CueRetreatStarted     = "retreat-started"
	CueHit                = "hit"
	CueDied               = "died"
	CueMissingDependency  = "missing-dependency"
)

// CueSink receives cues. Sinks must not block; delivery is fire-and-forget.
type CueSink interface {
	Cue(e ecs.Entity, name string)
}

// CueSinkFunc adapts a function to CueSink.
type CueSinkFunc func(e ecs.Entity, name string)

func (f CueSinkFunc) Cue(e ecs.Entity, name string) {
	f(e, name)
}

// CueSystem drains cue events from the world queue into its sinks. Other
// event types are left queued for their own consumers.
type CueSystem struct {
	sinks []CueSink
}

func NewCueSystem(sinks ...CueSink) *CueSystem {
	s := &CueSystem{}
	for _, sink := range sinks {
		s.AddSink(sink)
	}
	return s
}

func (s *CueSystem) AddSink(sink CueSink) {
	if s == nil || sink == nil {
		return
	}
	s.sinks = append(s.sinks, sink)
}

func (s *CueSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	events := w.Events().Drain()
	for _, evt := range events {
		cue, ok := evt.Data.(ecs.CueEvent)
		if evt.Type != ecs.EventCue || !ok {
			w.Events().Push(evt)
			continue
		}
		for _, sink := range s.sinks {
			sink.Cue(cue.Entity, cue.Name)
		}
	}
}

// LogCueSink logs every cue at debug level.
type LogCueSink struct {
	log *logrus.Entry
}

func NewLogCueSink() *LogCueSink {
	return &LogCueSink{log: logger.For("cue")}
}

func (s *LogCueSink) Cue(e ecs.Entity, name string) {
	s.log.WithFields(logrus.Fields{"entity": e.String(), "cue": name}).Debug("cue")
}
