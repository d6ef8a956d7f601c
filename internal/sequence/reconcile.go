package sequence

import "github.com/cyue/lantern/internal/types"

// CombatView is the client's picture of the current enemy.
type CombatView struct {
	EnemyID    string
	EnemyName  string
	EnemyHP    int
	EnemyMaxHP int
	Evasion    int
	Weakness   string
	Turn       int
}

// CanonicalState is the client's canonical player/world state. The
// Reconciler is its sole writer; everything else reads snapshots of it.
type CanonicalState struct {
	Name      string
	HP        int
	MaxHP     int
	MP        int
	MaxMP     int
	Stats     types.Stats
	Gold      int
	Inventory map[string]types.InventoryItem
	Equipment types.Equipment
	Recipes   []string
	Chapter   string
	Scene     string
	Combat    *CombatView
}

// ChangeSet describes what a reconcile pass changed, as a diff between the
// prior and new canonical state. Cues derive from this, never from raw
// wire fields.
type ChangeSet struct {
	PlayerHurt   bool
	EnemyHurt    bool
	NeedsRefetch bool
}

// Reconciler merges snapshots and deltas into the canonical state.
// Callers must serialize Apply invocations in response-arrival order; the
// reconciler resolves truth sources, not reordering.
type Reconciler struct {
	state CanonicalState
}

// NewReconciler starts from an empty state.
func NewReconciler() *Reconciler {
	return &Reconciler{state: CanonicalState{Inventory: map[string]types.InventoryItem{}}}
}

// State returns a copy of the canonical state. The inventory map is
// shared; readers must not mutate it.
func (r *Reconciler) State() CanonicalState { return r.state }

// Apply merges one action result. A full snapshot replaces the state
// wholesale and any deltas in the same result are ignored; deltas alone
// assign absolute values. A combat info block riding with a snapshot still
// contributes the enemy descriptor, the snapshot's numbers stay. Applying
// the same result twice is a no-op the second time.
func (r *Reconciler) Apply(result *types.ActionResult) ChangeSet {
	prev := r.state

	switch {
	case result.GameState != nil:
		r.replaceFromSnapshot(result.GameState)
	case result.StateChanges != nil:
		r.applyDeltas(result.StateChanges)
	}

	if result.CombatInfo != nil {
		if result.GameState != nil {
			r.describeCombat(result.CombatInfo)
		} else {
			r.mergeCombatInfo(result.CombatInfo)
		}
	}

	cs := ChangeSet{
		PlayerHurt: r.state.HP < prev.HP,
		EnemyHurt: prev.Combat != nil && r.state.Combat != nil &&
			r.state.Combat.EnemyID == prev.Combat.EnemyID &&
			r.state.Combat.EnemyHP < prev.Combat.EnemyHP,
	}
	if sc := result.StateChanges; sc != nil && result.GameState == nil {
		cs.NeedsRefetch = sc.InventoryChanged || sc.Drops || sc.GoldGained
	}
	return cs
}

// ApplySnapshot replaces the state from an authoritative snapshot outside
// the action flow (initial load, refetch fallback, restart).
func (r *Reconciler) ApplySnapshot(snapshot *types.GameState) {
	r.replaceFromSnapshot(snapshot)
}

func (r *Reconciler) replaceFromSnapshot(snapshot *types.GameState) {
	player := snapshot.Player
	inventory := make(map[string]types.InventoryItem, len(player.Inventory))
	for _, item := range player.Inventory {
		inventory[item.ID] = item
	}

	state := CanonicalState{
		Name:      player.Name,
		HP:        player.HP,
		MaxHP:     player.MaxHP,
		MP:        player.MP,
		MaxMP:     player.MaxMP,
		Stats:     player.Stats,
		Gold:      player.Gold,
		Inventory: inventory,
		Equipment: player.Equipment,
		Recipes:   player.Recipes,
		Chapter:   snapshot.Chapter,
		Scene:     snapshot.Scene,
	}
	if combat := snapshot.Combat; combat != nil {
		view := &CombatView{
			EnemyID:    combat.EnemyID,
			EnemyHP:    combat.EnemyHP,
			EnemyMaxHP: combat.EnemyMaxHP,
			Turn:       combat.Turn,
		}
		// Descriptor fields are not part of the snapshot; keep what the
		// combat info already told us about the same enemy.
		if prior := r.state.Combat; prior != nil && prior.EnemyID == combat.EnemyID {
			view.EnemyName = prior.EnemyName
			view.Evasion = prior.Evasion
			view.Weakness = prior.Weakness
		}
		state.Combat = view
	}
	r.state = state
}

func (r *Reconciler) applyDeltas(changes *types.StateChanges) {
	if changes.PlayerHP != nil {
		r.state.HP = clamp(*changes.PlayerHP, 0, r.state.MaxHP)
	}
	if changes.PlayerMP != nil {
		r.state.MP = clamp(*changes.PlayerMP, 0, r.state.MaxMP)
	}
	if changes.Scene != nil {
		r.state.Scene = *changes.Scene
	}
	if changes.EnemyHP != nil && r.state.Combat != nil {
		combat := *r.state.Combat
		combat.EnemyHP = clamp(*changes.EnemyHP, 0, combat.EnemyMaxHP)
		r.state.Combat = &combat
	}
}

func (r *Reconciler) mergeCombatInfo(info *types.CombatInfo) {
	view := CombatView{
		EnemyID:    info.EnemyID,
		EnemyName:  info.EnemyName,
		EnemyHP:    info.EnemyHP,
		EnemyMaxHP: info.EnemyMaxHP,
		Evasion:    info.Evasion,
		Weakness:   info.Weakness,
	}
	if prior := r.state.Combat; prior != nil && prior.EnemyID == info.EnemyID {
		// The info block describes the enemy; current hp stays with
		// whatever the deltas last said.
		view.EnemyHP = prior.EnemyHP
		view.Turn = prior.Turn
	}
	r.state.Combat = &view
}

// describeCombat copies the descriptor fields onto the snapshot's combat
// view. The snapshot keeps hp and turn; the info block only describes the
// enemy.
func (r *Reconciler) describeCombat(info *types.CombatInfo) {
	prior := r.state.Combat
	if prior == nil || prior.EnemyID != info.EnemyID {
		return
	}
	combat := *prior
	combat.EnemyName = info.EnemyName
	combat.Evasion = info.Evasion
	combat.Weakness = info.Weakness
	r.state.Combat = &combat
}

// ClearCombat drops the enemy view when a scene exits combat.
func (r *Reconciler) ClearCombat() { r.state.Combat = nil }

// Reset returns to the empty state.
func (r *Reconciler) Reset() {
	r.state = CanonicalState{Inventory: map[string]types.InventoryItem{}}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > lo && v > hi {
		return hi
	}
	return v
}
