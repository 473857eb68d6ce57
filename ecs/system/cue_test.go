package system

import (
	"testing"

	"github.com/milk9111/hostile/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCueScript = `
react := func(cue) {
	if cue == "hit" {
		return { anim: "hurt", sound: "ouch" }
	}
	if cue == "died" {
		return { anim: "death" }
	}
	return undefined
}
`

func TestCueScriptReact(t *testing.T) {
	s, err := NewCueScript("test", []byte(testCueScript), nil)
	require.NoError(t, err)

	tests := []struct {
		cue   string
		anim  string
		sound string
	}{
		{cue: "hit", anim: "hurt", sound: "ouch"},
		{cue: "died", anim: "death"},
		{cue: "patrol-started"},
	}
	for _, tc := range tests {
		t.Run(tc.cue, func(t *testing.T) {
			r, err := s.React(1, tc.cue)
			require.NoError(t, err)
			assert.Equal(t, tc.anim, r.Animation)
			assert.Equal(t, tc.sound, r.Sound)
		})
	}
}

func TestCueScriptCompileErrorKeepsPrevious(t *testing.T) {
	_, err := NewCueScript("broken", []byte("react := func(cue) {"), nil)
	require.Error(t, err)

	s, err := NewCueScript("test", []byte(testCueScript), nil)
	require.NoError(t, err)
	require.Error(t, s.Reload([]byte("not tengo at all {{")))

	r, err := s.React(1, "hit")
	require.NoError(t, err)
	assert.Equal(t, "hurt", r.Animation)
}

func TestEmbeddedCueScriptCoversEveryCue(t *testing.T) {
	var got []CueReaction
	s, err := LoadCueScript("hostile_cues.tengo", func(r CueReaction) { got = append(got, r) })
	require.NoError(t, err)

	cues := []string{
		CuePatrolStarted, CueChaseStarted, CueInvestigateStarted, CueShootStarted,
		CueProjectileFired, CueChargeStarted, CueChargeEnded, CueRetreatStarted,
		CueHit, CueDied, CueMissingDependency,
	}
	for _, c := range cues {
		s.Cue(1, c)
	}
	require.Len(t, got, len(cues))
	assert.Equal(t, "error", got[len(got)-1].Sound)
}

func TestCueSystemDeliversCuesAndKeepsOtherEvents(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	var got []string
	cues := NewCueSystem(CueSinkFunc(func(_ ecs.Entity, name string) { got = append(got, name) }), nil)

	w.Events().PushCue(e, CueHit)
	w.Events().Push(ecs.Event{Type: "level-loaded"})
	w.Events().PushCue(e, CueDied)
	cues.Update(w)

	assert.Equal(t, []string{CueHit, CueDied}, got)
	require.Equal(t, 1, w.Events().Len())
	assert.Equal(t, "level-loaded", w.Events().Drain()[0].Type)
}
