package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/dark-candy-land/game/config"
	"github.com/wricardo/dark-candy-land/game/engine"
	"github.com/wricardo/dark-candy-land/game/service"
)

func newTestPersistence(t *testing.T) (*FilePersistence, *config.Manager, string) {
	t.Helper()
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return persistence, configManager, dir
}

func newTestSession(t *testing.T, id string, gameConfig *engine.GameConfig, seed uint64) *service.Session {
	t.Helper()
	eng, err := engine.NewEngineWithRand(gameConfig, engine.NewRand(seed))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         gameConfig,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		LastAccessedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestFilePersistence(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)

	quick, err := configManager.LoadConfig("quick")
	if err != nil {
		t.Fatalf("Failed to load quick ruleset: %v", err)
	}
	session := newTestSession(t, "test1", quick, 7)

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
		if loaded.Config.Name != "quick" {
			t.Errorf("Expected quick ruleset, got %s", loaded.Config.Name)
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("Expected created_at %v, got %v", session.CreatedAt, loaded.CreatedAt)
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		session.Engine.AutoPlay(8)

		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		want, got := session.Engine.GetState(), loaded.Engine.GetState()
		if got.Players != want.Players {
			t.Errorf("Players not persisted correctly: %+v vs %+v", got.Players, want.Players)
		}
		if got.Turn != want.Turn || got.ID != want.ID {
			t.Errorf("Turn pointer or game ID not persisted")
		}
		if len(got.Log) != len(want.Log) || len(got.History) != len(want.History) {
			t.Errorf("Log or history not persisted correctly")
		}
		for i := range want.Board {
			if got.Board[i] != want.Board[i] {
				t.Fatalf("Tile %d differs after reload", i)
			}
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		session2 := newTestSession(t, "test2", configManager.GetDefault(), 8)
		if err := persistence.Save(session2); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if len(sessionIDs) != 2 || !found["test1"] || !found["test2"] {
			t.Errorf("Expected test1 and test2, got %v", sessionIDs)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if _, err := persistence.Load("test2"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		if _, err := persistence.Load("nonexistent"); err == nil {
			t.Error("Should get error when loading non-existent session")
		}
		if err := persistence.Delete("nonexistent"); err == nil {
			t.Error("Should get error when deleting non-existent session")
		}
		if err := persistence.Save(nil); err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	persistence, configManager, dir := newTestPersistence(t)

	session := newTestSession(t, "file_test", configManager.GetDefault(), 1)
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "file_test.json"))
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Session file is not valid JSON: %v", err)
	}
	for _, field := range []string{"id", "config_name", "created_at", "last_accessed_at", "game_state"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("Session file should contain field %s", field)
		}
	}

	var configName string
	json.Unmarshal(raw["config_name"], &configName)
	if configName != "classic" {
		t.Errorf("Expected config_name classic, got %s", configName)
	}

	if _, err := os.Stat(filepath.Join(dir, "file_test.json.tmp")); !os.IsNotExist(err) {
		t.Error("Temporary file should not be left behind")
	}
}

func TestFilePersistenceRejectsCorruptState(t *testing.T) {
	persistence, configManager, dir := newTestPersistence(t)

	session := newTestSession(t, "bad1", configManager.GetDefault(), 1)
	session.Engine.GetState().Turn = 7
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	_, err := persistence.Load("bad1")
	if !errors.Is(err, engine.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}

	os.WriteFile(filepath.Join(dir, "bad2.json"), []byte(`{"id": "bad2", "game_state": `), 0644)
	if _, err := persistence.Load("bad2"); err == nil {
		t.Error("Expected error for truncated session file")
	}
}

func TestFilePersistenceMissingRuleset(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)

	custom := engine.DefaultConfig()
	custom.Name = "vanished"
	session := newTestSession(t, "orphan", custom, 3)
	session.Engine.AutoPlay(4)
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := persistence.Load("orphan")
	if err != nil {
		t.Fatalf("Expected load to fall back to the default ruleset: %v", err)
	}
	if loaded.Config != configManager.GetDefault() {
		t.Error("Expected the default ruleset")
	}
	if len(loaded.Engine.GetHistory()) != len(session.Engine.GetHistory()) {
		t.Error("Game state should survive a missing ruleset")
	}
}
