package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/dark-candy-land/game/engine"
)

// DefaultAutoPlayTurns is used when AutoPlay is asked for zero turns
const DefaultAutoPlayTurns = 20

// gameServiceImpl implements the GameService interface. Operations on one
// session are serialized by that session's lock; different sessions proceed
// in parallel.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a ruleset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return engine.DefaultConfigName
	}
	return configName
}

// getSession looks a session up and records the access
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	sess.Touch()
	return sess, nil
}

// persist saves a session; failures are logged, not returned
func (s *gameServiceImpl) persist(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msgf("Failed to persist session after %s", op)
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	sess.Lock()
	defer sess.Unlock()

	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      engine.CloneState(sess.Engine.GetState()),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					configIDs := make([]string, 0, len(availableConfigs))
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %s", ErrConfigNotFound, configName, strings.Join(configIDs, ", "))
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if configName != "" {
		info.ConfigName = strings.TrimSuffix(configName, ".json")
	}

	log.Info().Str("session", sess.ID).Str("config", info.ConfigName).Msg("Session created")
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, most recently accessed first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	sortSessionInfos(result)
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return err
	}
	log.Info().Str("session", sessionID).Msg("Session deleted")
	return nil
}

// Draw resolves one turn for the player whose turn it is
func (s *gameServiceImpl) Draw(ctx context.Context, sessionID string) (*DrawResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	rec, played := sess.Engine.Draw()
	state := engine.CloneState(sess.Engine.GetState())
	sess.Unlock()

	if !played {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, winnerMessage(state))
	}

	s.persist(sessionID, "draw")

	result := &DrawResult{
		GameState: state,
		Turn:      &rec,
		Card:      rec.Card,
		Events:    turnEvents(rec, time.Now()),
		Message:   strings.Join(rec.Log, " "),
	}
	if rec.Won {
		result.GameOver = true
		result.Winner = winnerInfo(state)
	}

	log.Debug().Str("session", sessionID).Int("turn", rec.Number).Str("player", rec.PlayerName).
		Int("from", rec.From).Int("to", rec.To).Msg("Turn resolved")
	return result, nil
}

// AutoPlay resolves up to maxTurns turns, stopping at victory
func (s *gameServiceImpl) AutoPlay(ctx context.Context, sessionID string, maxTurns int) (*AutoPlayResult, error) {
	if maxTurns < 0 {
		return nil, fmt.Errorf("turns must not be negative, got %d", maxTurns)
	}
	if maxTurns == 0 {
		maxTurns = DefaultAutoPlayTurns
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &AutoPlayResult{
		RequestedTurns: maxTurns,
		Events:         []GameEvent{},
	}
	if maxTurns > engine.MaxAutoPlayTurns {
		result.Truncated = true
		result.Limit = engine.MaxAutoPlayTurns
	}

	sess.Lock()
	alreadyOver := sess.Engine.IsGameOver()
	records := sess.Engine.AutoPlay(maxTurns)
	state := engine.CloneState(sess.Engine.GetState())
	sess.Unlock()

	now := time.Now()
	for _, rec := range records {
		result.Events = append(result.Events, turnEvents(rec, now)...)
	}
	if records == nil {
		records = []engine.TurnRecord{}
	}
	result.Turns = records
	result.TurnsPlayed = len(records)
	result.GameState = state

	if w := winnerInfo(state); w != nil {
		result.GameOver = true
		result.Winner = w
		result.StoppedReason = "victory"
		if alreadyOver {
			result.StoppedReason = "already_over"
		}
	} else {
		result.StoppedReason = "turn_limit"
	}

	if len(records) > 0 {
		s.persist(sessionID, "autoplay")
	}
	return result, nil
}

// Restart replaces the session's game with a fresh one from its ruleset
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	state, err := sess.Engine.Restart()
	if err == nil {
		state = engine.CloneState(state)
	}
	sess.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	s.persist(sessionID, "restart")
	log.Info().Str("session", sessionID).Str("game", state.ID).Msg("Game restarted")
	return state, nil
}

// GetGameState returns a snapshot of the session's game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return engine.CloneState(sess.Engine.GetState()), nil
}

// GetHistory returns a page of turn records
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := append([]engine.TurnRecord(nil), sess.Engine.GetHistory()...)
	sess.Unlock()

	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	turns := []engine.TurnRecord{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
