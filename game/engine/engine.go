package engine

import "fmt"

// MaxAutoPlayTurns caps a single AutoPlay call
const MaxAutoPlayTurns = 200

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Restart() (*GameState, error)
	IsGameOver() bool
	Winner() (int, bool)
	CurrentPlayer() Player

	// Turn operations
	Draw() (TurnRecord, bool)
	AutoPlay(maxTurns int) []TurnRecord

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetHistory() []TurnRecord
	GetLastTurn() *TurnRecord
}

var _ Engine = (*GameEngine)(nil)

// GameEngine implements the Engine interface for a single game. It is not
// safe for concurrent use; callers serialize access per session.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    Rand
}

// NewEngine creates a new game engine with a clock-seeded random source
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithRand(config, NewTimeSeededRand())
}

// NewEngineWithRand creates a new game engine drawing from rng
func NewEngineWithRand(config *GameConfig, rng Rand) (*GameEngine, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}

	state, err := NewGameState(config, rng)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		state:  state,
		config: config,
		rng:    rng,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic ruleset
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return engine
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if err := ValidateState(state); err != nil {
		return err
	}
	e.state = state
	return nil
}

// Restart replaces the game with a fresh one from the same ruleset
func (e *GameEngine) Restart() (*GameState, error) {
	state, err := NewGameState(e.config, e.rng)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e.state, nil
}

// IsGameOver reports whether a player has reached the castle with teeth left
func (e *GameEngine) IsGameOver() bool {
	_, won := Winner(e.state)
	return won
}

// Winner returns the index of the winning player
func (e *GameEngine) Winner() (int, bool) {
	return Winner(e.state)
}

// CurrentPlayer returns a copy of the player who acts next
func (e *GameEngine) CurrentPlayer() Player {
	return *CurrentPlayer(e.state)
}

// Draw resolves one turn. It returns false without touching the state when
// the game has already been won.
func (e *GameEngine) Draw() (TurnRecord, bool) {
	if e.IsGameOver() {
		return TurnRecord{}, false
	}
	rec := PlayTurn(e.state, func() Card { return DrawCard(e.state, e.rng) })
	return rec, true
}

// AutoPlay resolves turns until someone wins or maxTurns turns have been
// played. maxTurns is capped at MaxAutoPlayTurns.
func (e *GameEngine) AutoPlay(maxTurns int) []TurnRecord {
	if maxTurns > MaxAutoPlayTurns {
		maxTurns = MaxAutoPlayTurns
	}

	records := make([]TurnRecord, 0, maxTurns)
	for i := 0; i < maxTurns; i++ {
		rec, played := e.Draw()
		if !played {
			break
		}
		records = append(records, rec)
	}

	return records
}

// GetConfig returns the current ruleset
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new ruleset and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	state, err := NewGameState(config, e.rng)
	if err != nil {
		return err
	}

	e.config = config
	e.state = state
	return nil
}

// GetHistory returns every turn resolved in the current game
func (e *GameEngine) GetHistory() []TurnRecord {
	return e.state.History
}

// GetLastTurn returns the last resolved turn, or nil if none
func (e *GameEngine) GetLastTurn() *TurnRecord {
	if len(e.state.History) == 0 {
		return nil
	}
	return &e.state.History[len(e.state.History)-1]
}
