package service

import (
	"context"
	"fmt"
	"log"
	"strikeops/internal/cache"
	"strikeops/internal/model"
	"strikeops/internal/repository"
	"time"

	"github.com/google/uuid"
)

// Feed message types for match events.
const (
	MsgResultRecorded    = "result_recorded"
	MsgLeaderboardUpdate = "leaderboard_update"
)

// RecordEventInput is the payload for one match event.
type RecordEventInput struct {
	Type      model.ResultType `json:"type"`
	PlayerID  string           `json:"playerId"`
	TargetID  string           `json:"targetId,omitempty"`
	DeviceID  string           `json:"deviceId,omitempty"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
}

// ResultService ingests match events and computes the leaderboard.
type ResultService struct {
	games       repository.GameRepo
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
	now         func() time.Time
}

func NewResultService(games repository.GameRepo, leaderboard cache.LeaderboardCache) *ResultService {
	return &ResultService{games: games, leaderboard: leaderboard, now: time.Now}
}

func (s *ResultService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RecordEvent appends one event to the game's result log. Events are only
// accepted while the game is in progress and inside its time window; an
// unset bound is unbounded. The append itself is conditioned on the status
// so a concurrent completion cannot sneak an event in.
func (s *ResultService) RecordEvent(ctx context.Context, gameID string, in RecordEventInput) (*model.GameResult, error) {
	if !model.ValidResultType(in.Type) {
		return nil, model.ErrValidation("unknown result type %q", in.Type)
	}
	if in.PlayerID == "" {
		return nil, model.ErrValidation("playerId is required")
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}

	if game.Status != model.GameStatusInProgress {
		return nil, model.ErrPreconditionFailed("game %s is %s, events are only accepted while in progress", gameID, game.Status)
	}

	now := s.now()
	if game.StartTime != nil && now.Before(*game.StartTime) {
		return nil, model.ErrPreconditionFailed("game %s has not started yet", gameID)
	}
	if game.EndTime != nil && now.After(*game.EndTime) {
		return nil, model.ErrPreconditionFailed("game %s time window has closed", gameID)
	}

	if game.ParticipantByPlayer(in.PlayerID) == nil {
		return nil, model.ErrValidation("player %s is not registered to game %s", in.PlayerID, gameID)
	}
	if in.TargetID != "" && game.ParticipantByPlayer(in.TargetID) == nil {
		return nil, model.ErrValidation("target player %s is not registered to game %s", in.TargetID, gameID)
	}
	if in.DeviceID != "" && game.DeviceByID(in.DeviceID) == nil {
		return nil, model.ErrValidation("device %s is not assigned to game %s", in.DeviceID, gameID)
	}

	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	res := model.GameResult{
		ID:        uuid.NewString(),
		Type:      in.Type,
		PlayerID:  in.PlayerID,
		TargetID:  in.TargetID,
		DeviceID:  in.DeviceID,
		Timestamp: ts,
	}

	ok, err := s.games.AppendResult(ctx, gameID, model.GameStatusInProgress, res)
	if err != nil {
		return nil, fmt.Errorf("append result: %w", err)
	}
	if !ok {
		return nil, model.ErrPreconditionFailed("game %s is no longer in progress", gameID)
	}

	// The event is durable at this point; the cache and feed are best effort.
	if err := s.leaderboard.IncrScore(ctx, gameID, in.PlayerID, model.ScoreDelta(in.Type)); err != nil {
		log.Printf("bump leaderboard for game %s: %v", gameID, err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOperator(gameID, MsgResultRecorded, res)
		s.broadcaster.BroadcastToWatchers(gameID, MsgResultRecorded, res)
	}

	return &res, nil
}

// ComputeRanking folds the full result log into the authoritative
// leaderboard and refreshes the cached standings.
func (s *ResultService) ComputeRanking(ctx context.Context, gameID string) ([]model.RankLine, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}

	lines := model.BuildRanking(game.Participants, game.Results)

	if err := s.leaderboard.Sync(ctx, gameID, lines); err != nil {
		log.Printf("sync leaderboard for game %s: %v", gameID, err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWatchers(gameID, MsgLeaderboardUpdate, lines)
	}

	return lines, nil
}

// Leaderboard serves the cached live standings.
func (s *ResultService) Leaderboard(ctx context.Context, gameID string, limit int) ([]cache.Entry, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}
	return s.leaderboard.Top(ctx, gameID, limit)
}
