// Package session provides session management for Dark Candy Land.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Session represents an individual game session with its own engine instance
// and metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Generated IDs come from
// crypto/rand and are retried until they clash with no session in memory or
// on disk. Lookups are case-insensitive.
//
// Concurrency:
//
// The manager lock guards the session map only. Each session carries its own
// lock for its engine and timestamps; Save and SaveAllSessions take it, so
// callers must release it first.
//
// Persistence:
//
// FilePersistence writes sessions/<id>.json holding the ruleset ID, the
// timestamps and the full game state. Loads go through engine.UnmarshalState,
// so a hand-edited file that breaks an invariant is rejected.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// The manager provides cleanup methods for removing stale sessions and
// freeing resources.
package session
