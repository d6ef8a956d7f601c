package sequence

import (
	"time"

	"github.com/cyue/lantern/internal/types"
)

// Cue names a transient visual effect.
type Cue string

const (
	CuePlayerHit  Cue = "player-hit"
	CueEnemyHit   Cue = "enemy-hit"
	CueSceneEnter Cue = "scene-enter"
	CueSceneExit  Cue = "scene-exit"
	CueFirstTip   Cue = "first-combat-tip"
)

const (
	hitCueDuration   = 600 * time.Millisecond
	sceneCueDuration = 1500 * time.Millisecond
	firstTipDelay    = 400 * time.Millisecond
	firstTipDuration = 6 * time.Second
)

func cueDuration(cue Cue) time.Duration {
	switch cue {
	case CuePlayerHit, CueEnemyHit:
		return hitCueDuration
	case CueFirstTip:
		return firstTipDuration
	default:
		return sceneCueDuration
	}
}

// activeCue is a cue with its expiry deadline.
type activeCue struct {
	start    time.Time
	deadline time.Time
}

// Effects derives transient cues from state diffs and scene transitions,
// and owns their expiry deadlines. Retriggering an active cue restarts its
// deadline; cues never stack.
type Effects struct {
	active map[Cue]activeCue

	tipText    string
	tipDue     time.Time
	tipPending bool
	tipShown   bool
}

// NewEffects creates an empty coordinator.
func NewEffects() *Effects {
	return &Effects{active: map[Cue]activeCue{}}
}

// Observe reacts to one reconcile pass: the change set, the scene
// transition, and any tutorial text riding along with a combat entry.
func (fx *Effects) Observe(cs ChangeSet, prev, next types.SceneType, tutorial string, now time.Time) {
	if cs.PlayerHurt {
		fx.Trigger(CuePlayerHit, now)
	}
	if cs.EnemyHurt {
		fx.Trigger(CueEnemyHit, now)
	}
	if prev != next {
		switch next {
		case types.SceneCombat:
			fx.Trigger(CueSceneEnter, now)
			if !fx.tipShown && tutorial != "" {
				fx.tipText = tutorial
				fx.tipDue = now.Add(firstTipDelay)
				fx.tipPending = true
			}
		default:
			if prev == types.SceneCombat {
				fx.Trigger(CueSceneExit, now)
			}
		}
	}
}

// Trigger activates a cue, restarting the expiry when already active.
func (fx *Effects) Trigger(cue Cue, now time.Time) {
	fx.active[cue] = activeCue{start: now, deadline: now.Add(cueDuration(cue))}
}

// Advance expires due cues and fires the delayed first-combat tip.
// Returns true if the active set changed.
func (fx *Effects) Advance(now time.Time) bool {
	changed := false
	if fx.tipPending && !fx.tipDue.After(now) {
		fx.tipPending = false
		fx.tipShown = true
		fx.Trigger(CueFirstTip, now)
		changed = true
	}
	for cue, a := range fx.active {
		if !a.deadline.After(now) {
			delete(fx.active, cue)
			changed = true
		}
	}
	return changed
}

// Active reports whether a cue is currently live.
func (fx *Effects) Active(cue Cue) bool {
	_, ok := fx.active[cue]
	return ok
}

// ActiveSet returns the live cues.
func (fx *Effects) ActiveSet() []Cue {
	cues := make([]Cue, 0, len(fx.active))
	for cue := range fx.active {
		cues = append(cues, cue)
	}
	return cues
}

// TipText returns the first-combat tutorial text while its cue is live.
func (fx *Effects) TipText() string {
	if fx.Active(CueFirstTip) {
		return fx.tipText
	}
	return ""
}

// NextDue reports the earliest pending deadline: a cue expiry or the
// first-tip delay.
func (fx *Effects) NextDue() (time.Time, bool) {
	var due time.Time
	ok := false
	if fx.tipPending {
		due = fx.tipDue
		ok = true
	}
	for _, a := range fx.active {
		if !ok || a.deadline.Before(due) {
			due = a.deadline
			ok = true
		}
	}
	return due, ok
}

// Reset cancels every pending deadline. The first-tip once-per-session
// latch survives so a restart does not replay the tutorial.
func (fx *Effects) Reset() {
	fx.active = map[Cue]activeCue{}
	fx.tipPending = false
	fx.tipText = ""
}
