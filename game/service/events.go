package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/wricardo/dark-candy-land/game/engine"
)

// turnEvents breaks a turn record into the events a UI or agent reacts to
func turnEvents(rec engine.TurnRecord, at time.Time) []GameEvent {
	event := func(typ, msg string) GameEvent {
		return GameEvent{Type: typ, Message: msg, Timestamp: at, Player: rec.Player, Position: rec.To}
	}

	if rec.Skipped {
		return []GameEvent{event(EventSkip, fmt.Sprintf("%s was snared; turn skipped.", rec.PlayerName))}
	}
	if rec.Card == nil {
		return []GameEvent{}
	}

	events := []GameEvent{event(EventDraw, fmt.Sprintf("%s drew: %s", rec.PlayerName, rec.Card))}

	if rec.Card.IsSpecial() {
		if eff, ok := engine.CardEffect(rec.Card.Name); ok {
			events = append(events, event(EventCardEffect, eff.Log))
		}
	} else {
		events = append(events, event(EventMove, fmt.Sprintf("%s moved from tile %d", rec.PlayerName, rec.From)))
	}

	if eff, ok := engine.TileEffect(rec.Landed); ok {
		ev := event(EventTileEffect, eff.Log)
		ev.Special = rec.Landed
		events = append(events, ev)
	}

	if rec.Collapsed {
		events = append(events, event(EventCollapse, fmt.Sprintf("%s's smile collapses. Must find a Brush Square to revive.", rec.PlayerName)))
	}
	if rec.Won {
		events = append(events, event(EventVictory, fmt.Sprintf("%s reaches Dark King Kandy's Castle with teeth to spare. Victory!", rec.PlayerName)))
	}

	return events
}

// winnerInfo describes the winner of a finished game, or nil
func winnerInfo(state *engine.GameState) *WinnerInfo {
	idx, won := engine.Winner(state)
	if !won {
		return nil
	}
	p := state.Players[idx]
	return &WinnerInfo{Index: idx, Name: p.Name, Teeth: p.Teeth, Candy: p.Candy}
}

func winnerMessage(state *engine.GameState) string {
	if w := winnerInfo(state); w != nil {
		return fmt.Sprintf("%s already won; restart to play again", w.Name)
	}
	return "restart to play again"
}

func sortSessionInfos(infos []*SessionInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].LastAccessedAt.Equal(infos[j].LastAccessedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].LastAccessedAt.After(infos[j].LastAccessedAt)
	})
}
