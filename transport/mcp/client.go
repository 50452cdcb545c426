package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/dark-candy-land/game/engine"
	"github.com/wricardo/dark-candy-land/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Dark Candy Land",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Dark Candy Land - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players race down a candy track to Dark King Kandy's Castle. Every sweet
rots teeth. The first player to stand on the castle with at least one tooth wins.

AVAILABLE TOOLS:
- create_session: Create new game session (optionally pick a ruleset)
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the board, both players and the recent log
- draw_card: Resolve one turn for the player whose turn it is
- autoplay: Resolve several turns in a row
- restart_game: Start over with the same ruleset
- turn_history: View past turns
- list_configs: List available rulesets
- game_rules: Get the rules, tile effects and card effects
- describe_tile: Get detailed info about one tile of the track`),
	)

	// Register all tools
	c.registerTools()
}

func sessionSchema(extra map[string]interface{}) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional ruleset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Ruleset to use, e.g. classic or quick (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_card",
		Description: "Draw a card and resolve one turn for the current player",
		InputSchema: sessionSchema(map[string]interface{}{
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of what you expect from this draw (serves as a rubber duck to help explain your reasoning)",
			},
		}),
	}, c.handleDrawCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "autoplay",
		Description: "Resolve several turns in a row, stopping early on victory",
		InputSchema: sessionSchema(map[string]interface{}{
			"turns": map[string]interface{}{
				"type":        "integer",
				"description": fmt.Sprintf("Maximum turns to play (default %d, capped at %d)", service.DefaultAutoPlayTurns, engine.MaxAutoPlayTurns),
			},
		}),
	}, c.handleAutoPlay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Restart the game with the same ruleset",
		InputSchema: sessionSchema(nil),
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get turn history for a session",
		InputSchema: sessionSchema(map[string]interface{}{
			"page": map[string]interface{}{
				"type":        "integer",
				"description": "Page number",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Items per page",
			},
			"order": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"asc", "desc"},
				"description": "Oldest first (asc) or newest first (desc)",
			},
		}),
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rulesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the rules of Dark Candy Land including every tile and card effect",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about one tile of the track, including its special effect and who stands on it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Tile index (0-based, the castle is the last tile)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configName := request.GetString("config_name", "")

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil {
			if idx, won := engine.Winner(s.GameState); won {
				status = s.GameState.Players[idx].Name + " won"
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleDrawCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var result service.DrawResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/draw"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDrawResult(&result)), nil
}

func (c *Client) handleAutoPlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	turns := request.GetInt("turns", 0)
	if turns < 0 {
		return mcp.NewToolResultError("turns must not be negative"), nil
	}

	var result service.AutoPlayResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/autoplay"), map[string]int{"turns": turns}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAutoPlayResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/restart"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game restarted.\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Rulesets (%d):\n\n", len(configs))
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (board %d, teeth %d, deck %d)\n",
			cfg.ConfigID, cfg.Description, cfg.BoardLength, cfg.StartingTeeth, cfg.DeckSize)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules()), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	index := request.GetInt("index", -1)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if index < 0 || index >= len(state.Board) {
		return mcp.NewToolResultError(fmt.Sprintf("Tile %d is off the track. Valid tiles are 0-%d", index, state.Board.LastIndex())), nil
	}

	return mcp.NewToolResultText(describeTile(&state, index)), nil
}

// Formatting

var specialOrder = []engine.Special{engine.Gumdrop, engine.Lollipop, engine.Licorice, engine.Cavity, engine.Brush}

func gameRules() string {
	var b strings.Builder
	b.WriteString(`🍭 Dark Candy Land - Rules

GAME OBJECTIVE:
Reach Dark King Kandy's Castle (the last tile) with at least one tooth left.

TURNS:
• Players alternate. On your turn you draw a card, move, then the tile you land on takes effect.
• A color card moves you one tile, a double moves you two.
• Cards are drawn with replacement, so the deck never runs out.
• Position is clamped to the track; teeth are clamped between 0 and 32.
• Candy only counts for bragging rights and may go negative.

COLLAPSE:
• If your teeth hit 0 your smile collapses and you lose your next draw.
• Standing on the castle without teeth does not win. Find a Brush Square first.

SPECIAL CARDS:
`)
	for _, name := range []engine.CardName{engine.RainbowRot, engine.CandyCaneShortcut} {
		if e, ok := engine.CardEffect(name); ok {
			fmt.Fprintf(&b, "• %s\n", e.Log)
		}
	}

	b.WriteString("\nSPECIAL TILES:\n")
	for _, s := range specialOrder {
		if e, ok := engine.TileEffect(s); ok {
			fmt.Fprintf(&b, "• %s (%s): %s\n", s.DisplayName(), s, e.Log)
		}
	}

	b.WriteString(`
VICTORY:
• The first player on the castle with teeth to spare wins. The game then stays frozen until restarted.

Good luck, and brush often!`)
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatPlayer(state *engine.GameState, i int) string {
	p := state.Players[i]
	line := fmt.Sprintf("%s: tile %d/%d | Teeth: %d | Candy: %d", p.Name, p.Pos, state.Board.LastIndex(), p.Teeth, p.Candy)
	if p.Skip {
		line += " | skips next draw"
	}
	return line
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	for i := range state.Players {
		marker := "  "
		if i == state.Turn {
			marker = "▶ "
		}
		result.WriteString(marker + formatPlayer(state, i) + "\n")
	}
	fmt.Fprintf(&result, "Turns played: %d | Deck: %d cards\n\n", len(state.History), len(state.Deck))

	// Track
	for _, tile := range state.Board {
		var who []string
		for _, p := range state.Players {
			if p.Pos == tile.Index {
				who = append(who, p.Name)
			}
		}
		if tile.Special == engine.NoSpecial && len(who) == 0 {
			continue
		}
		fmt.Fprintf(&result, "%2d %-6s", tile.Index, tile.Color)
		if tile.Special != engine.NoSpecial {
			fmt.Fprintf(&result, " %s", tile.Special.DisplayName())
		}
		if len(who) > 0 {
			fmt.Fprintf(&result, "  <- %s", strings.Join(who, ", "))
		}
		result.WriteString("\n")
	}

	if n := len(state.Log); n > 0 {
		result.WriteString("\nRecent log:\n")
		start := n - 5
		if start < 0 {
			start = 0
		}
		for _, line := range state.Log[start:] {
			result.WriteString("  " + line + "\n")
		}
	}

	if idx, won := engine.Winner(state); won {
		fmt.Fprintf(&result, "\n🏰 VICTORY! %s reached the castle with %d teeth.", state.Players[idx].Name, state.Players[idx].Teeth)
	}

	return result.String()
}

func formatTurnLine(rec engine.TurnRecord) string {
	if rec.Skipped {
		return fmt.Sprintf("%d. %s skipped (snared)", rec.Number, rec.PlayerName)
	}
	card := "?"
	if rec.Card != nil {
		card = rec.Card.String()
	}
	line := fmt.Sprintf("%d. %s drew %s: %d→%d teeth %d→%d candy %d→%d",
		rec.Number, rec.PlayerName, card, rec.From, rec.To, rec.TeethBefore, rec.TeethAfter, rec.CandyBefore, rec.CandyAfter)
	if rec.Landed != engine.NoSpecial && rec.Landed != engine.Castle {
		line += " [" + rec.Landed.DisplayName() + "]"
	}
	if rec.Collapsed {
		line += " 💀 collapsed"
	}
	if rec.Won {
		line += " 🏰 won"
	}
	return line
}

func formatDrawResult(result *service.DrawResult) string {
	var b strings.Builder
	if result.Turn != nil {
		b.WriteString(formatTurnLine(*result.Turn) + "\n")
		for _, line := range result.Turn.Log {
			b.WriteString("  " + line + "\n")
		}
	}
	if result.Message != "" {
		b.WriteString("\n" + result.Message + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatAutoPlayResult(result *service.AutoPlayResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Played %d of %d requested turns", result.TurnsPlayed, result.RequestedTurns)
	if result.Truncated {
		fmt.Fprintf(&b, " (capped at %d)", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, " | stopped: %s", result.StoppedReason)
	}
	b.WriteString("\n\n")

	for _, rec := range result.Turns {
		b.WriteString(formatTurnLine(rec) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d) - Total turns: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	if len(history.Turns) == 0 {
		b.WriteString("(no turns yet)")
		return b.String()
	}
	for _, rec := range history.Turns {
		b.WriteString(formatTurnLine(rec) + "\n")
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore turns on page %d", history.Page+1)
	}
	return b.String()
}

func describeTile(state *engine.GameState, index int) string {
	tile := engine.TileAt(state.Board, index)

	var b strings.Builder
	fmt.Fprintf(&b, "Tile %d of %d\nColor: %s\n", tile.Index, state.Board.LastIndex(), tile.Color)

	switch {
	case tile.Special == engine.Castle:
		b.WriteString("Special: Dark King Kandy's Castle\nEffect: standing here with at least one tooth wins the game\n")
	case tile.Special != engine.NoSpecial:
		fmt.Fprintf(&b, "Special: %s\n", tile.Special.DisplayName())
		if e, ok := engine.TileEffect(tile.Special); ok {
			fmt.Fprintf(&b, "Effect: %s\n", e.Log)
		}
	default:
		b.WriteString("Special: none\n")
	}

	for _, p := range state.Players {
		if p.Pos == index {
			fmt.Fprintf(&b, "Occupied by: %s (teeth %d)\n", p.Name, p.Teeth)
		}
	}

	return b.String()
}
