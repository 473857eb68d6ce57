package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/logger"
	"github.com/milk9111/hostile/prefabs"
	"github.com/sirupsen/logrus"
)

// CueReaction is what a cue script maps a cue to: the animation and sound
// collaborators should play. Empty names mean nothing to play.
type CueReaction struct {
	Entity    ecs.Entity
	Cue       string
	Animation string
	Sound     string
}

// cueDispatchScript is appended to every cue script. Scripts define
// react(cue) returning a map with optional "anim" and "sound" keys.
const cueDispatchScript = `
__result := react(__cue)
`

// CueScript is a CueSink backed by a tengo script.
type CueScript struct {
	name     string
	compiled *tengo.Compiled
	out      func(CueReaction)
	log      *logrus.Entry
}

// LoadCueScript compiles a script from the prefab scripts directory.
func LoadCueScript(name string, out func(CueReaction)) (*CueScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("cue script: load %s: %w", name, err)
	}
	s, err := NewCueScript(name, src, out)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func NewCueScript(name string, src []byte, out func(CueReaction)) (*CueScript, error) {
	s := &CueScript{name: name, out: out, log: logger.For("cue_script")}
	if err := s.compile(src); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload recompiles the script. On error the previous script stays active.
func (s *CueScript) Reload(src []byte) error {
	return s.compile(src)
}

func (s *CueScript) compile(src []byte) error {
	script := tengo.NewScript([]byte(string(src) + "\n" + cueDispatchScript))
	_ = script.Add("__cue", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("cue script: compile %s: %w", s.name, err)
	}
	s.compiled = compiled
	return nil
}

// React runs the script for one cue.
func (s *CueScript) React(e ecs.Entity, cue string) (CueReaction, error) {
	reaction := CueReaction{Entity: e, Cue: cue}
	if s == nil || s.compiled == nil {
		return reaction, fmt.Errorf("cue script: not compiled")
	}
	if err := s.compiled.Set("__cue", cue); err != nil {
		return reaction, fmt.Errorf("cue script: set cue: %w", err)
	}
	if err := s.compiled.Run(); err != nil {
		return reaction, fmt.Errorf("cue script: run %s: %w", s.name, err)
	}
	result := s.compiled.Get("__result")
	if result.IsUndefined() {
		return reaction, nil
	}
	m := result.Map()
	if v, ok := m["anim"].(string); ok {
		reaction.Animation = strings.TrimSpace(v)
	}
	if v, ok := m["sound"].(string); ok {
		reaction.Sound = strings.TrimSpace(v)
	}
	return reaction, nil
}

func (s *CueScript) Cue(e ecs.Entity, name string) {
	reaction, err := s.React(e, name)
	if err != nil {
		s.log.WithError(err).WithField("cue", name).Warn("cue script failed")
		return
	}
	if reaction.Animation == "" && reaction.Sound == "" {
		return
	}
	if s.out != nil {
		s.out(reaction)
		return
	}
	s.log.WithFields(logrus.Fields{
		"entity": e.String(),
		"cue":    name,
		"anim":   reaction.Animation,
		"sound":  reaction.Sound,
	}).Debug("cue reaction")
}
