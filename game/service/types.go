package service

import (
	"time"

	"github.com/wricardo/dark-candy-land/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// DrawResult contains the result of a single turn
type DrawResult struct {
	GameState *engine.GameState  `json:"game_state"`
	Turn      *engine.TurnRecord `json:"turn"`
	Card      *engine.Card       `json:"card,omitempty"`
	Events    []GameEvent        `json:"events"`
	GameOver  bool               `json:"game_over"`
	Winner    *WinnerInfo        `json:"winner,omitempty"`
	Message   string             `json:"message"`
}

// AutoPlayResult contains the result of several consecutive turns
type AutoPlayResult struct {
	RequestedTurns int                 `json:"requested_turns"`
	TurnsPlayed    int                 `json:"turns_played"`
	Truncated      bool                `json:"truncated,omitempty"`
	Limit          int                 `json:"limit,omitempty"`
	Turns          []engine.TurnRecord `json:"turns"`
	Events         []GameEvent         `json:"events"`
	GameState      *engine.GameState   `json:"game_state"`
	GameOver       bool                `json:"game_over"`
	Winner         *WinnerInfo         `json:"winner,omitempty"`
	StoppedReason  string              `json:"stopped_reason,omitempty"` // victory|turn_limit|already_over
}

// WinnerInfo names the player who reached the castle
type WinnerInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Teeth int    `json:"teeth"`
	Candy int    `json:"candy"`
}

// Event types emitted by Draw and AutoPlay
const (
	EventSkip       = "skip"
	EventDraw       = "draw"
	EventMove       = "move"
	EventCardEffect = "card_effect"
	EventTileEffect = "tile_effect"
	EventCollapse   = "collapse"
	EventVictory    = "victory"
	EventRestart    = "restart"
)

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Player    int            `json:"player"`
	Position  int            `json:"position"`
	Special   engine.Special `json:"special,omitempty"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a ruleset
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	BoardLength   int    `json:"board_length"`
	StartingTeeth int    `json:"starting_teeth"`
	DeckSize      int    `json:"deck_size"`
}
