package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// DefaultConfigName is the ruleset used when none is requested
const DefaultConfigName = "classic"

// GameConfig is a ruleset loaded from JSON
type GameConfig struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	BoardLength   int        `json:"board_length"`
	StartingTeeth int        `json:"starting_teeth"`
	Players       []string   `json:"players"`
	Deck          DeckConfig `json:"deck"`
}

// DefaultConfig returns the classic ruleset: 40 tiles, 32 teeth, 24 cards
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:          DefaultConfigName,
		Description:   "Two players race 40 tiles to Dark King Kandy's Castle with a full set of 32 teeth.",
		BoardLength:   DefaultBoardLength,
		StartingTeeth: MaxTeeth,
		Players:       []string{"Player 1", "Player 2"},
		Deck:          DefaultDeckConfig(),
	}
}

// ValidateGameConfig validates a ruleset for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return errors.New("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.BoardLength < MinBoardLength || config.BoardLength > DefaultBoardLength {
		return fmt.Errorf("config validation: board_length must be between %d and %d, got %d",
			MinBoardLength, DefaultBoardLength, config.BoardLength)
	}

	if config.StartingTeeth < 1 || config.StartingTeeth > MaxTeeth {
		return fmt.Errorf("config validation: starting_teeth must be between 1 and %d, got %d", MaxTeeth, config.StartingTeeth)
	}

	if len(config.Players) != PlayerCount {
		return fmt.Errorf("config validation: exactly %d players are required, got %d", PlayerCount, len(config.Players))
	}
	for i, name := range config.Players {
		if name == "" {
			return fmt.Errorf("config validation: player %d needs a name", i+1)
		}
	}

	if _, err := BuildDeck(config.Deck); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

// LoadGameConfig loads and validates a ruleset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewGameState creates a fresh game for a ruleset
func NewGameState(config *GameConfig, rng Rand) (*GameState, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	deck, err := BuildDeck(config.Deck)
	if err != nil {
		return nil, err
	}

	state := &GameState{
		ID:         uuid.NewString(),
		Board:      GenerateBoard(config.BoardLength, rng),
		Deck:       deck,
		Turn:       0,
		Log:        []string{},
		ConfigName: config.Name,
	}
	for i := range state.Players {
		state.Players[i] = Player{
			Name:  config.Players[i],
			Teeth: config.StartingTeeth,
		}
	}

	return state, nil
}

// CreateGameState creates a fresh classic game
func CreateGameState(rng Rand) *GameState {
	state, err := NewGameState(DefaultConfig(), rng)
	if err != nil {
		panic(err)
	}
	return state
}
