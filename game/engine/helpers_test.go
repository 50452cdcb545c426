package engine

import "testing"

func newTestState(t *testing.T) *GameState {
	t.Helper()
	return CreateGameState(NewRand(1))
}

// drawSequence returns a draw func that yields cards in order
func drawSequence(t *testing.T, cards ...Card) func() Card {
	t.Helper()
	i := 0
	return func() Card {
		if i >= len(cards) {
			t.Fatalf("drew more than %d cards", len(cards))
		}
		c := cards[i]
		i++
		return c
	}
}

func noDraw(t *testing.T) func() Card {
	return func() Card {
		t.Fatal("no card should be drawn")
		return Card{}
	}
}

func assertInBounds(t *testing.T, state *GameState) {
	t.Helper()
	for i, p := range state.Players {
		if p.Pos < 0 || p.Pos > state.Board.LastIndex() {
			t.Fatalf("player %d position %d out of bounds", i, p.Pos)
		}
		if p.Teeth < 0 || p.Teeth > MaxTeeth {
			t.Fatalf("player %d teeth %d out of bounds", i, p.Teeth)
		}
	}
}
