// Package engine provides the core game logic for Dark Candy Land.
//
// The engine package implements the game mechanics including:
//   - Board generation from the authored tile layout
//   - Deck composition and card draws with replacement
//   - Tile and special-card effects on position, teeth and candy
//   - Turn resolution with skips, collapse and victory
//   - Ruleset loading and validation
//
// Core Types:
//
// GameState is the aggregate root holding the board, deck, both players, the
// turn pointer and the narrative log. ResolveTurn is the single entry point
// that mutates it. GameEngine wraps one state together with its ruleset and
// random source for use by a session.
//
// Usage:
//
//	rng := engine.NewRand(42)
//	state := engine.CreateGameState(rng)
//
//	for i := 0; i < 500; i++ {
//		engine.ResolveTurn(state, rng)
//		if _, won := engine.Winner(state); won {
//			break
//		}
//	}
//
// Game Rules:
//
// Two players take turns drawing from a 24-card deck. Color cards move one
// tile, or two for a double. Rainbow Rot and Candy Cane Shortcut move the
// player ahead at the cost of teeth. Special tiles push players around, rot
// or restore their teeth and hand out candy. A player whose teeth reach zero
// collapses and loses their next draw. The first player to stand on the
// castle with at least one tooth wins, and the turn pointer stays with them.
package engine
