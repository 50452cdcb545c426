package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wricardo/dark-candy-land/game/engine"
	"github.com/wricardo/dark-candy-land/game/service"
	"github.com/wricardo/dark-candy-land/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	DrawFunc     func(ctx context.Context, sessionID string) (*service.DrawResult, error)
	AutoPlayFunc func(ctx context.Context, sessionID string, maxTurns int) (*service.AutoPlayResult, error)
	RestartFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHistoryFunc   func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

var _ service.GameService = (*MockGameService)(nil)

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "ab12",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Draw(ctx context.Context, sessionID string) (*service.DrawResult, error) {
	if m.DrawFunc != nil {
		return m.DrawFunc(ctx, sessionID)
	}
	return &service.DrawResult{GameState: testState()}, nil
}

func (m *MockGameService) AutoPlay(ctx context.Context, sessionID string, maxTurns int) (*service.AutoPlayResult, error) {
	if m.AutoPlayFunc != nil {
		return m.AutoPlayFunc(ctx, sessionID, maxTurns)
	}
	return &service.AutoPlayResult{RequestedTurns: maxTurns, GameState: testState()}, nil
}

func (m *MockGameService) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return testState(), nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Turns:      []engine.TurnRecord{},
		TotalTurns: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	config := engine.DefaultConfig()
	config.Name = configName
	return config, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func testState() *engine.GameState {
	return engine.CreateGameState(engine.NewRand(7))
}

func wonState() *engine.GameState {
	state := testState()
	state.Players[1].Pos = state.Board.LastIndex()
	state.Turn = 1
	return state
}

func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	msg, _ := resp["error"].(string)
	return msg
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %s", configName)
					}
					return &service.SessionInfo{
						ID:             "c0de",
						ConfigName:     "classic",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "c0de" {
					t.Errorf("Expected session ID c0de, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id",
			requestBody: map[string]string{"config_id": "quick"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "quick" {
						t.Errorf("Expected config name 'quick', got %s", configName)
					}
					return &service.SessionInfo{ID: "beef", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "quick" {
					t.Errorf("Expected config name 'quick', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Legacy config_name field",
			requestBody: map[string]string{"config_name": "sugar_rush"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "sugar_rush" {
						t.Errorf("Expected config name 'sugar_rush', got %s", configName)
					}
					return &service.SessionInfo{ID: "f00d", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: '%s'", service.ErrConfigNotFound, configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				if msg := errorMessage(t, w); msg != "service error" {
					t.Errorf("Expected error message 'service error', got %s", msg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateSessionInvalidBody(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions", bytes.NewBufferString("{not json"))

	server.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "aaaa", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-1 * time.Minute)},
			{ID: "bbbb", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
			{ID: "cccc", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-1 * time.Hour)},
		}
	}

	tests := []struct {
		name          string
		query         string
		expectedOrder []string
		expectedTotal int
	}{
		{name: "Default sorts by last access, newest first", query: "", expectedOrder: []string{"aaaa", "cccc", "bbbb"}, expectedTotal: 3},
		{name: "Sort by creation ascending", query: "?sort=created&order=asc", expectedOrder: []string{"aaaa", "cccc", "bbbb"}, expectedTotal: 3},
		{name: "Sort by creation descending", query: "?sort=created", expectedOrder: []string{"bbbb", "cccc", "aaaa"}, expectedTotal: 3},
		{name: "Limit", query: "?limit=2", expectedOrder: []string{"aaaa", "cccc"}, expectedTotal: 3},
		{name: "Invalid limit ignored", query: "?limit=abc", expectedOrder: []string{"aaaa", "cccc", "bbbb"}, expectedTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
					return sessions(), nil
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, resp.Total)
			}
			if resp.Count != len(tt.expectedOrder) {
				t.Fatalf("Expected %d sessions, got %d", len(tt.expectedOrder), resp.Count)
			}
			for i, id := range tt.expectedOrder {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:      "Existing session",
			sessionID: "ab12",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: sessionID, ConfigName: "classic", GameState: testState()}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Missing session",
			sessionID: "zzzz",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			tt.setupMock(mockService)

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/"+tt.sessionID, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "Delete existing", err: nil, expectedStatus: http.StatusOK},
		{name: "Delete missing", err: service.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
		{name: "Storage failure", err: fmt.Errorf("disk full"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted string
			mockService := &MockGameService{
				DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
					deleted = sessionID
					return tt.err
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if deleted != "ab12" {
				t.Errorf("Expected delete of ab12, got %q", deleted)
			}
		})
	}
}

// Game Operation Tests

func TestDraw(t *testing.T) {
	card := engine.ColorCard(engine.Red, true)

	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Successful draw",
			setupMock: func(m *MockGameService) {
				m.DrawFunc = func(ctx context.Context, sessionID string) (*service.DrawResult, error) {
					return &service.DrawResult{
						GameState: testState(),
						Turn:      &engine.TurnRecord{Number: 1, PlayerName: "Player 1", Card: &card, From: 0, To: 2, TeethBefore: 32, TeethAfter: 32},
						Card:      &card,
						Message:   "Player 1 drew: Double Red",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				turn, ok := resp["turn"].(map[string]interface{})
				if !ok {
					t.Fatalf("Expected turn in response, got %v", resp)
				}
				if turn["to"] != float64(2) {
					t.Errorf("Expected turn.to 2, got %v", turn["to"])
				}
				if resp["game_over"] != false {
					t.Errorf("Expected game_over false, got %v", resp["game_over"])
				}
			},
		},
		{
			name: "Winning draw",
			setupMock: func(m *MockGameService) {
				m.DrawFunc = func(ctx context.Context, sessionID string) (*service.DrawResult, error) {
					return &service.DrawResult{
						GameState: wonState(),
						Turn:      &engine.TurnRecord{Number: 9, Player: 1, PlayerName: "Player 2", Card: &card, From: 37, To: 39, Won: true},
						GameOver:  true,
						Winner:    &service.WinnerInfo{Index: 1, Name: "Player 2", Teeth: 30},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.DrawResult
				parseResponse(t, w, &resp)
				if !resp.GameOver || resp.Winner == nil || resp.Winner.Name != "Player 2" {
					t.Errorf("Expected Player 2 to win, got %+v", resp.Winner)
				}
			},
		},
		{
			name: "Game already over",
			setupMock: func(m *MockGameService) {
				m.DrawFunc = func(ctx context.Context, sessionID string) (*service.DrawResult, error) {
					return nil, fmt.Errorf("%w: Player 2 already won", service.ErrGameOver)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Session not found",
			setupMock: func(m *MockGameService) {
				m.DrawFunc = func(ctx context.Context, sessionID string) (*service.DrawResult, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			tt.setupMock(mockService)

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/draw", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestAutoPlay(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedTurns  int
		expectedStatus int
	}{
		{name: "No body uses service default", body: nil, expectedTurns: 0, expectedStatus: http.StatusOK},
		{name: "Explicit turns", body: map[string]int{"turns": 15}, expectedTurns: 15, expectedStatus: http.StatusOK},
		{name: "Negative turns", body: map[string]int{"turns": -3}, expectedStatus: http.StatusBadRequest},
		{name: "Wrong type", body: map[string]string{"turns": "many"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mockService := &MockGameService{
				AutoPlayFunc: func(ctx context.Context, sessionID string, maxTurns int) (*service.AutoPlayResult, error) {
					called = true
					if maxTurns != tt.expectedTurns {
						t.Errorf("Expected %d turns, got %d", tt.expectedTurns, maxTurns)
					}
					return &service.AutoPlayResult{
						RequestedTurns: maxTurns,
						TurnsPlayed:    maxTurns,
						GameState:      testState(),
						StoppedReason:  "turn_limit",
					}, nil
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/autoplay", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK && !called {
				t.Error("Expected AutoPlay to be called")
			}
			if tt.expectedStatus != http.StatusOK && called {
				t.Error("AutoPlay should not be called for a rejected request")
			}
		})
	}
}

func TestRestart(t *testing.T) {
	t.Run("Restart returns fresh state", func(t *testing.T) {
		server := setupTestServer(&MockGameService{})
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/restart", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			Message string            `json:"message"`
			State   *engine.GameState `json:"state"`
		}
		parseResponse(t, w, &resp)
		if resp.State == nil {
			t.Fatal("Expected state in response")
		}
		for i, p := range resp.State.Players {
			if p.Pos != 0 || p.Teeth != engine.MaxTeeth {
				t.Errorf("Player %d not reset: %+v", i+1, p)
			}
		}
	})

	t.Run("Restart missing session", func(t *testing.T) {
		mockService := &MockGameService{
			RestartFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
				return nil, service.ErrSessionNotFound
			},
		}
		server := setupTestServer(mockService)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/zzzz/restart", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
		expectedOrder string
	}{
		{name: "Defaults", query: "", expectedPage: 1, expectedLimit: 20, expectedOrder: "desc"},
		{name: "Explicit paging", query: "?page=3&limit=5&order=asc", expectedPage: 3, expectedLimit: 5, expectedOrder: "asc"},
		{name: "Garbage falls back", query: "?page=-1&limit=x&order=sideways", expectedPage: 1, expectedLimit: 20, expectedOrder: "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Turns: []engine.TurnRecord{}, Page: opts.Page, PageSize: opts.Limit}, nil
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got.Page != tt.expectedPage || got.Limit != tt.expectedLimit || got.Order != tt.expectedOrder {
				t.Errorf("Expected page=%d limit=%d order=%s, got %+v", tt.expectedPage, tt.expectedLimit, tt.expectedOrder, got)
			}
		})
	}
}

func TestGetGameState(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/state", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	board, ok := resp["board"].([]interface{})
	if !ok || len(board) != engine.DefaultBoardLength {
		t.Errorf("Expected %d tiles, got %v", engine.DefaultBoardLength, len(board))
	}
	if _, ok := resp["players"]; !ok {
		t.Error("Expected players in state")
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{Filename: "classic.json", ConfigID: "classic", Name: "classic", BoardLength: 40, StartingTeeth: 32, DeckSize: 24},
				{Filename: "quick.json", ConfigID: "quick", Name: "quick", BoardLength: 20, StartingTeeth: 20, DeckSize: 24},
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/configs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp []*service.ConfigInfo
	parseResponse(t, w, &resp)
	if len(resp) != 2 || resp[1].ConfigID != "quick" {
		t.Errorf("Unexpected config list: %+v", resp)
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedName   string
		err            error
		expectedStatus int
	}{
		{name: "By ID", path: "/api/configs/quick", expectedName: "quick", expectedStatus: http.StatusOK},
		{name: "With json suffix", path: "/api/configs/quick.json", expectedName: "quick", expectedStatus: http.StatusOK},
		{name: "Missing", path: "/api/configs/nope", expectedName: "nope", err: service.ErrConfigNotFound, expectedStatus: http.StatusNotFound},
		{name: "Broken file", path: "/api/configs/broken", expectedName: "broken", err: service.ErrInvalidConfig, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
					if configName != tt.expectedName {
						t.Errorf("Expected config %s, got %s", tt.expectedName, configName)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					config := engine.DefaultConfig()
					config.Name = configName
					return config, nil
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestCreateConfig(t *testing.T) {
	valid := engine.DefaultConfig()
	valid.Name = "house_rules"

	tests := []struct {
		name           string
		body           interface{}
		saveErr        error
		expectedStatus int
	}{
		{name: "Valid ruleset", body: valid, expectedStatus: http.StatusCreated},
		{name: "Missing name", body: map[string]interface{}{"description": "x"}, expectedStatus: http.StatusBadRequest},
		{name: "Rejected by validation", body: valid, saveErr: fmt.Errorf("%w: board too short", service.ErrInvalidConfig), expectedStatus: http.StatusBadRequest},
		{name: "Write failure", body: valid, saveErr: fmt.Errorf("permission denied"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{
				SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
					if configName != config.Name {
						t.Errorf("Expected config name %s, got %s", config.Name, configName)
					}
					return tt.saveErr
				},
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/configs", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestUnifiedSessions(t *testing.T) {
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "aaaa", ConfigName: "classic", GameState: testState()},
				{ID: "bbbb", ConfigName: "classic", GameState: wonState()},
				{ID: "cccc", ConfigName: "quick", GameState: testState()},
			}, nil
		},
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "cccc" {
				return &service.SessionInfo{ID: "cccc", ConfigName: "quick", GameState: testState()}, nil
			}
			return nil, service.ErrSessionNotFound
		},
	}

	server := setupTestServer(mockService)

	t.Run("Filter by config", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/unified?configName=classic", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp map[string]interface{}
		parseResponse(t, w, &resp)
		sessions := resp["sessions"].([]interface{})
		if len(sessions) != 2 {
			t.Fatalf("Expected 2 sessions, got %d", len(sessions))
		}
		if resp["finished"] != float64(1) {
			t.Errorf("Expected 1 finished game, got %v", resp["finished"])
		}
		if resp["board_length"] != float64(engine.DefaultBoardLength) {
			t.Errorf("Expected board_length %d, got %v", engine.DefaultBoardLength, resp["board_length"])
		}
		winner := sessions[1].(map[string]interface{})["winner"]
		if winner != "Player 2" {
			t.Errorf("Expected Player 2 as winner, got %v", winner)
		}
	})

	t.Run("Explicit session IDs skip unknown", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/unified?sessionIds=cccc,zzzz", nil))

		var resp map[string]interface{}
		parseResponse(t, w, &resp)
		sessions := resp["sessions"].([]interface{})
		if len(sessions) != 1 {
			t.Fatalf("Expected 1 session, got %d", len(sessions))
		}
		if resp["config_name"] != "quick" {
			t.Errorf("Expected config_name quick, got %v", resp["config_name"])
		}
	})
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %s", resp["status"])
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=zzzz",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Valid session",
			queryParams:    "?session=ab12",
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// ResponseRecorder cannot be hijacked, so a 500 means the upgrade was attempted
			if tt.expectedStatus == http.StatusSwitchingProtocols && w.Code == http.StatusInternalServerError {
				return
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestWebSocketWithoutHub(t *testing.T) {
	server := NewServer(&MockGameService{}, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?session=ab12", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", service.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", service.ErrConfigNotFound), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", service.ErrInvalidConfig), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", service.ErrGameOver), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
