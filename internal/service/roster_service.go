package service

import (
	"context"
	"fmt"
	"strikeops/internal/model"
	"strikeops/internal/repository"
	"time"
)

// Feed message types for roster changes.
const (
	MsgParticipantRegistered   = "participant_registered"
	MsgParticipantUnregistered = "participant_unregistered"
)

// RosterService is the participant registry: which players are registered to
// a game and whether they have shown up.
type RosterService struct {
	games       repository.GameRepo
	players     repository.PlayerRepo
	broadcaster Broadcaster
	now         func() time.Time
}

func NewRosterService(games repository.GameRepo, players repository.PlayerRepo) *RosterService {
	return &RosterService{games: games, players: players, now: time.Now}
}

func (s *RosterService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Register adds a player to the game roster. The uniqueness of the
// (game, player) pair is enforced by a single conditional insert, so two
// concurrent calls can never both succeed.
func (s *RosterService) Register(ctx context.Context, gameID, playerID string) (*model.Participant, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	if player == nil {
		return nil, model.ErrNotFound("player %s not found", playerID)
	}

	p := model.Participant{
		PlayerID:     playerID,
		Name:         player.Name,
		Present:      false,
		RegisteredAt: s.now(),
	}

	ok, err := s.games.AddParticipant(ctx, gameID, p)
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	if !ok {
		return nil, model.ErrConflict("player %s is already registered to game %s", playerID, gameID)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOperator(gameID, MsgParticipantRegistered, p)
	}
	return &p, nil
}

// Unregister removes the participant along with their group node; any
// devices they held flow back to the group pool by losing their allocation.
// Removing a player who is not registered is a no-op.
func (s *RosterService) Unregister(ctx context.Context, gameID, playerID string) error {
	matched, err := s.games.RemoveParticipant(ctx, gameID, playerID)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if !matched {
		return model.ErrNotFound("game %s not found", gameID)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOperator(gameID, MsgParticipantUnregistered, map[string]string{"playerId": playerID})
	}
	return nil
}

// TogglePresence flips the participant's presence flag.
func (s *RosterService) TogglePresence(ctx context.Context, gameID, playerID string) (*model.Participant, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}

	p := game.ParticipantByPlayer(playerID)
	if p == nil {
		return nil, model.ErrNotFound("player %s is not registered to game %s", playerID, gameID)
	}

	ok, err := s.games.SetParticipantPresence(ctx, gameID, playerID, !p.Present)
	if err != nil {
		return nil, fmt.Errorf("set presence: %w", err)
	}
	if !ok {
		return nil, model.ErrNotFound("player %s is not registered to game %s", playerID, gameID)
	}

	p.Present = !p.Present
	return p, nil
}
