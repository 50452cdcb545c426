// Package service provides the business logic layer for Dark Candy Land.
//
// The service package implements:
//   - Multi-session game management
//   - Ruleset lookup and saving
//   - Turn resolution, single and batched
//   - Paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages ruleset loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// game engine. Each session owns its own engine and lock, so turns in one
// session are serialized while separate sessions run in parallel. Every
// returned GameState is a copy, safe to encode after the lock is released.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "quick")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Draw(ctx, info.ID)
//	if errors.Is(err, service.ErrGameOver) {
//		gameService.Restart(ctx, info.ID)
//	}
package service
