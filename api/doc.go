// Package api provides HTTP REST API handlers for Dark Candy Land.
//
// The api package implements:
//   - Session management endpoints
//   - Turn endpoints (single draw, autoplay, restart)
//   - Paginated turn history
//   - Ruleset listing, lookup and upload
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions              - Create new session ({"config_id": "quick"})
//   - GET    /api/sessions              - List sessions (sort, order, limit)
//   - GET    /api/sessions/unified      - Several sessions at once (sessionIds, configName)
//   - GET    /api/sessions/{id}         - Get specific session
//   - DELETE /api/sessions/{id}         - Delete session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state     - Current game state
//   - POST /api/sessions/{id}/draw      - Resolve one turn
//   - POST /api/sessions/{id}/autoplay  - Resolve up to {"turns": n} turns
//   - POST /api/sessions/{id}/restart   - Start over with the same ruleset
//   - GET  /api/sessions/{id}/history   - Turn history (page, limit, order)
//
// Configuration:
//   - GET  /api/configs                 - List rulesets
//   - GET  /api/configs/{name}          - Get one ruleset
//   - POST /api/configs                 - Save a ruleset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}              - Live state updates
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{
//	  "error": "session not found: ab12",
//	  "code": 404
//	}
//
// Unknown sessions and rulesets map to 404, invalid rulesets to 400 and
// draws on a finished game to 409.
package api
