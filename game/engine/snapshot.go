package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a snapshot cannot be rehydrated
var ErrInvalidState = errors.New("invalid game state")

// ValidateState checks the structural invariants a rehydrated state must hold
func ValidateState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("%w: state is nil", ErrInvalidState)
	}
	if len(state.Board) < MinBoardLength {
		return fmt.Errorf("%w: board has %d tiles", ErrInvalidState, len(state.Board))
	}
	for i, tile := range state.Board {
		if tile.Index != i {
			return fmt.Errorf("%w: tile %d has index %d", ErrInvalidState, i, tile.Index)
		}
		if !tile.Color.Valid() {
			return fmt.Errorf("%w: tile %d has color %q", ErrInvalidState, i, tile.Color)
		}
		if tile.Special == Castle && i != state.Board.LastIndex() {
			return fmt.Errorf("%w: castle at tile %d is not the last tile", ErrInvalidState, i)
		}
	}
	if state.Board[state.Board.LastIndex()].Special != Castle {
		return fmt.Errorf("%w: last tile is not the castle", ErrInvalidState)
	}
	if len(state.Deck) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidState, ErrEmptyDeck)
	}
	if state.Turn != 0 && state.Turn != 1 {
		return fmt.Errorf("%w: turn is %d", ErrInvalidState, state.Turn)
	}
	for i, p := range state.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidState, i+1)
		}
		if p.Pos < 0 || p.Pos > state.Board.LastIndex() {
			return fmt.Errorf("%w: player %d position %d is off the board", ErrInvalidState, i+1, p.Pos)
		}
		if p.Teeth < 0 || p.Teeth > MaxTeeth {
			return fmt.Errorf("%w: player %d has %d teeth", ErrInvalidState, i+1, p.Teeth)
		}
	}
	return nil
}

// MarshalState encodes a state in the record form used by sessions and the API
func MarshalState(state *GameState) ([]byte, error) {
	return json.Marshal(state)
}

// UnmarshalState decodes and validates a state produced by MarshalState
func UnmarshalState(data []byte) (*GameState, error) {
	var state GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if state.Log == nil {
		state.Log = []string{}
	}
	if err := ValidateState(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

// CloneState returns a deep copy that shares nothing mutable with state.
// Turn records are immutable once appended, so their card and log are shared.
func CloneState(state *GameState) *GameState {
	if state == nil {
		return nil
	}
	clone := *state
	clone.Board = append(Board(nil), state.Board...)
	clone.Deck = append(Deck(nil), state.Deck...)
	clone.Log = append([]string{}, state.Log...)
	if state.History != nil {
		clone.History = append([]TurnRecord(nil), state.History...)
	}
	return &clone
}
