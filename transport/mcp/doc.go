// Package mcp exposes Dark Candy Land to Model Context Protocol clients.
//
// The Client here holds no game state. Every tool call is proxied to the REST
// API of a running server, so an MCP agent and a browser can watch the same
// session at once.
//
// MCP Tools:
//   - create_session: Create new game session with ruleset selection
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - game_state: Players, notable tiles and the recent log
//   - draw_card: Resolve one turn
//   - autoplay: Resolve several turns, stopping on victory
//   - restart_game: Start over with the same ruleset
//   - turn_history: Paginated turn history
//   - list_configs: List available rulesets
//   - game_rules: Rules with every tile and card effect
//   - describe_tile: Details of a single tile
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
