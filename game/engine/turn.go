package engine

import "fmt"

// ResolveTurn resolves one turn for the player whose turn it is and returns
// the same, mutated state.
func ResolveTurn(state *GameState, rng Rand) *GameState {
	PlayTurn(state, func() Card { return DrawCard(state, rng) })
	return state
}

// PlayTurn resolves one turn, obtaining the card from draw. The turn is:
//
//  1. a pending skip is consumed and the turn passes without a draw
//  2. otherwise a card is drawn and its movement or special effect applied
//  3. the landed tile's special is applied
//  4. teeth at zero collapses the player, forcing a skip on their next turn
//  5. standing on the castle with teeth left wins and freezes the turn
//     pointer; otherwise the turn passes
//
// Once a player has won, further calls leave the state untouched and return a
// record with Won set that is not added to the history.
func PlayTurn(state *GameState, draw func() Card) TurnRecord {
	idx := state.Turn
	current := &state.Players[idx]
	logStart := len(state.Log)

	rec := TurnRecord{
		Number:      len(state.History) + 1,
		Player:      idx,
		PlayerName:  current.Name,
		From:        current.Pos,
		TeethBefore: current.Teeth,
		CandyBefore: current.Candy,
	}

	if hasWon(state.Board, current) {
		rec.Won = true
		rec.To = current.Pos
		rec.Landed = Castle
		rec.TeethAfter = current.Teeth
		rec.CandyAfter = current.Candy
		rec.Log = []string{}
		return rec
	}

	if current.Skip {
		current.Skip = false
		state.Log = append(state.Log, fmt.Sprintf("%s was snared; turn skipped.", current.Name))
		rec.Skipped = true
		state.Turn = 1 - state.Turn
		return recordTurn(state, rec, current, logStart)
	}

	card := draw()
	rec.Card = &card
	state.Log = append(state.Log, fmt.Sprintf("%s drew: %s", current.Name, card))

	if card.IsSpecial() {
		ApplySpecialCard(state, current, card)
	} else {
		current.Pos = clamp(current.Pos+card.Spaces(), 0, state.Board.LastIndex())
	}

	rec.Landed = TileAt(state.Board, current.Pos).Special
	ApplyTileSpecial(state, current)

	if current.Teeth <= 0 {
		current.Skip = true
		rec.Collapsed = true
		state.Log = append(state.Log, fmt.Sprintf("%s's smile collapses. Must find a Brush Square to revive.", current.Name))
	}

	if hasWon(state.Board, current) {
		rec.Won = true
		state.Log = append(state.Log, fmt.Sprintf("%s reaches Dark King Kandy's Castle with teeth to spare. Victory!", current.Name))
	} else {
		state.Turn = 1 - state.Turn
	}

	return recordTurn(state, rec, current, logStart)
}

func recordTurn(state *GameState, rec TurnRecord, player *Player, logStart int) TurnRecord {
	rec.To = player.Pos
	rec.TeethAfter = player.Teeth
	rec.CandyAfter = player.Candy
	rec.Log = append([]string{}, state.Log[logStart:]...)
	state.History = append(state.History, rec)
	return rec
}

func hasWon(board Board, player *Player) bool {
	return TileAt(board, player.Pos).Special == Castle && player.Teeth >= 1
}

// Winner returns the index of the winning player, if the game has been won
func Winner(state *GameState) (int, bool) {
	if hasWon(state.Board, &state.Players[state.Turn]) {
		return state.Turn, true
	}
	return -1, false
}

// CurrentPlayer returns the player who acts next
func CurrentPlayer(state *GameState) *Player {
	return &state.Players[state.Turn]
}
