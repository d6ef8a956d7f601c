package types

// SceneType labels the classification a scene carries on the wire.
type SceneType string

const (
	SceneNarrative SceneType = "narrative"
	SceneCombat    SceneType = "combat"
)

// DiceOutcome is the server's resolution of a d100 check.
type DiceOutcome struct {
	Roll           int    `json:"roll"`
	Target         int    `json:"target"`
	Result         string `json:"result"`
	Attribute      string `json:"attribute,omitempty"`
	AttributeValue int    `json:"attribute_value,omitempty"`
}

// Dice result strings as the engine emits them.
const (
	DiceCriticalSuccess = "critical_success"
	DiceSuccess         = "success"
	DiceFailure         = "failure"
	DiceCriticalFailure = "critical_failure"
)

// Succeeded reports whether the outcome counts as a success.
func (d DiceOutcome) Succeeded() bool {
	return d.Result == DiceSuccess || d.Result == DiceCriticalSuccess
}

// Stats holds the four player attributes.
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Perception   int `json:"perception"`
}

// Equipment holds the equipped item per slot; nil means empty.
type Equipment struct {
	Weapon     *string `json:"weapon"`
	Armor      *string `json:"armor"`
	Accessory1 *string `json:"accessory1"`
	Accessory2 *string `json:"accessory2"`
}

// InventoryItem is one stack in the player's inventory.
type InventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Player is the player block of a full game-state snapshot.
type Player struct {
	Name       string          `json:"name"`
	Background string          `json:"background"`
	Stats      Stats           `json:"stats"`
	HP         int             `json:"hp"`
	MaxHP      int             `json:"max_hp"`
	MP         int             `json:"mp"`
	MaxMP      int             `json:"max_mp"`
	Gold       int             `json:"gold"`
	Inventory  []InventoryItem `json:"inventory"`
	Equipment  Equipment       `json:"equipment"`
	Recipes    []string        `json:"recipes"`
	Choices    map[string]any  `json:"choices,omitempty"`
}

// CombatSnapshot is the combat block of a full game-state snapshot.
type CombatSnapshot struct {
	EnemyID    string           `json:"enemy_id"`
	EnemyHP    int              `json:"enemy_hp"`
	EnemyMaxHP int              `json:"enemy_max_hp"`
	Turn       int              `json:"turn"`
	PlayerBuff []map[string]any `json:"player_buffs,omitempty"`
	EnemyBuff  []map[string]any `json:"enemy_buffs,omitempty"`
}

// GameState is the authoritative full snapshot of a save.
type GameState struct {
	Chapter string          `json:"chapter"`
	Scene   string          `json:"scene"`
	Player  Player          `json:"player"`
	Flags   map[string]any  `json:"flags,omitempty"`
	Combat  *CombatSnapshot `json:"combat,omitempty"`
}

// CombatInfo describes the enemy for a combat scene. Sent alongside the
// scene classification rather than inside the snapshot.
type CombatInfo struct {
	EnemyID    string `json:"enemy_id"`
	EnemyName  string `json:"enemy_name,omitempty"`
	EnemyHP    int    `json:"enemy_hp"`
	EnemyMaxHP int    `json:"enemy_max_hp"`
	Evasion    int    `json:"evasion,omitempty"`
	Weakness   string `json:"weakness,omitempty"`
	Tutorial   string `json:"tutorial,omitempty"`
}

// StateChanges carries partial post-action deltas. Numeric fields are
// absolute values, not increments. The boolean flags only signal that the
// named collection changed; composition requires a full re-fetch.
type StateChanges struct {
	PlayerHP         *int    `json:"player_hp,omitempty"`
	PlayerMP         *int    `json:"player_mp,omitempty"`
	EnemyHP          *int    `json:"enemy_hp,omitempty"`
	Scene            *string `json:"scene,omitempty"`
	InventoryChanged bool    `json:"inventory_changed,omitempty"`
	Drops            bool    `json:"drops,omitempty"`
	GoldGained       bool    `json:"gold_gained,omitempty"`
}

// ActionOption is one entry of available_actions, passed through from the
// scene data and echoed back verbatim when chosen.
type ActionOption struct {
	Type string         `json:"type"`
	ID   string         `json:"id,omitempty"`
	Text string         `json:"text"`
	Data map[string]any `json:"data,omitempty"`
}

// ActionRequest is the body of a dispatched action.
type ActionRequest struct {
	ActionType string         `json:"action_type"`
	ActionData map[string]any `json:"action_data,omitempty"`
}

// ActionResult is the server response to one dispatched action.
type ActionResult struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	Narrative        []string       `json:"narrative"`
	GameState        *GameState     `json:"game_state,omitempty"`
	AvailableActions []ActionOption `json:"available_actions"`
	DiceResult       *DiceOutcome   `json:"dice_result,omitempty"`
	SceneType        SceneType      `json:"scene_type,omitempty"`
	CombatInfo       *CombatInfo    `json:"combat_info,omitempty"`
	StateChanges     *StateChanges  `json:"state_changes,omitempty"`
}

// SaveSlot summarizes one of the three save slots.
type SaveSlot struct {
	Slot          int     `json:"slot"`
	CharacterName *string `json:"character_name"`
	Chapter       *string `json:"chapter"`
	UpdatedAt     *string `json:"updated_at"`
	IsEmpty       bool    `json:"is_empty"`
}

// NewGameRequest creates a character in an empty slot.
type NewGameRequest struct {
	CharacterName string `json:"character_name"`
	Background    string `json:"background"`
	Stats         *Stats `json:"stats,omitempty"`
}
