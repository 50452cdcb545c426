// Package websocket provides WebSocket transport for Dark Candy Land.
//
// The websocket package implements:
//   - Session-scoped subscriptions
//   - State and event broadcasting after every change
//   - Ping/pong keepalive and connection cleanup
//
// Architecture:
//
// A central Hub owns the registry of connections. Only the Run goroutine
// touches it; registration, broadcasts and client counts all arrive over
// channels. Each connection has a read pump and a write pump goroutine.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only listen. Every message is one
// JSON frame:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2", "event": "turn", "data": {...turn record...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
