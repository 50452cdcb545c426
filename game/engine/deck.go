package engine

import "errors"

// ErrEmptyDeck is returned when a deck composition has no cards
var ErrEmptyDeck = errors.New("deck must contain at least one card")

// DeckConfig describes the composition of a deck
type DeckConfig struct {
	SinglesPerColor   int `json:"singles_per_color"`
	DoublesPerColor   int `json:"doubles_per_color"`
	RainbowRot        int `json:"rainbow_rot"`
	CandyCaneShortcut int `json:"candy_cane_shortcut"`
}

// DefaultDeckConfig is the 24-card classic composition
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		SinglesPerColor:   2,
		DoublesPerColor:   2,
		RainbowRot:        2,
		CandyCaneShortcut: 2,
	}
}

// Size returns the number of cards the composition produces
func (dc DeckConfig) Size() int {
	return len(Colors)*(dc.SinglesPerColor+dc.DoublesPerColor) + dc.RainbowRot + dc.CandyCaneShortcut
}

// NewDeck returns the classic 24-card deck
func NewDeck() Deck {
	deck, err := BuildDeck(DefaultDeckConfig())
	if err != nil {
		panic(err)
	}
	return deck
}

// BuildDeck builds a deck from a composition. Empty or negative compositions
// fail here so that drawing can never hit an empty deck.
func BuildDeck(dc DeckConfig) (Deck, error) {
	if dc.SinglesPerColor < 0 || dc.DoublesPerColor < 0 || dc.RainbowRot < 0 || dc.CandyCaneShortcut < 0 {
		return nil, errors.New("deck counts cannot be negative")
	}
	if dc.Size() == 0 {
		return nil, ErrEmptyDeck
	}

	deck := make(Deck, 0, dc.Size())
	for _, c := range Colors {
		for i := 0; i < dc.SinglesPerColor; i++ {
			deck = append(deck, ColorCard(c, false))
		}
		for i := 0; i < dc.DoublesPerColor; i++ {
			deck = append(deck, ColorCard(c, true))
		}
	}
	for i := 0; i < dc.RainbowRot; i++ {
		deck = append(deck, SpecialCard(RainbowRot))
	}
	for i := 0; i < dc.CandyCaneShortcut; i++ {
		deck = append(deck, SpecialCard(CandyCaneShortcut))
	}
	return deck, nil
}

// DrawCard samples one card uniformly with replacement. The deck is not
// modified.
func DrawCard(state *GameState, rng Rand) Card {
	return state.Deck[rng.Intn(len(state.Deck))]
}
