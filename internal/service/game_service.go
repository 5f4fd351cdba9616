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

// Feed message types for lifecycle changes.
const (
	MsgGameStarted   = "game_started"
	MsgGameCompleted = "game_completed"
	MsgGameCancelled = "game_cancelled"
)

// legalTransitions is the lifecycle state machine: planned is initial,
// completed and cancelled are terminal.
var legalTransitions = map[model.GameStatus][]model.GameStatus{
	model.GameStatusPlanned:    {model.GameStatusInProgress, model.GameStatusCancelled},
	model.GameStatusInProgress: {model.GameStatusCompleted, model.GameStatusCancelled},
}

// GameService owns game creation, lifecycle transitions, and deletion.
type GameService struct {
	games       repository.GameRepo
	devices     repository.DeviceRepo
	fieldMaps   repository.FieldMapRepo
	gameCache   cache.GameCache
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
	now         func() time.Time
}

func NewGameService(
	games repository.GameRepo,
	devices repository.DeviceRepo,
	fieldMaps repository.FieldMapRepo,
	gameCache cache.GameCache,
	leaderboard cache.LeaderboardCache,
) *GameService {
	return &GameService{
		games:       games,
		devices:     devices,
		fieldMaps:   fieldMaps,
		gameCache:   gameCache,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateGame creates a planned game and seeds one group per respawn device in
// the catalog. At least two respawn devices must exist.
func (s *GameService) CreateGame(ctx context.Context, name string, mode model.GameMode, fieldMapID string, date *time.Time) (*model.Game, error) {
	if name == "" {
		return nil, model.ErrValidation("game name is required")
	}
	if !model.ValidGameMode(mode) {
		return nil, model.ErrValidation("unknown game mode %q", mode)
	}
	if fieldMapID == "" {
		return nil, model.ErrValidation("fieldMapId is required")
	}

	fieldMap, err := s.fieldMaps.GetByID(ctx, fieldMapID)
	if err != nil {
		return nil, fmt.Errorf("get field map: %w", err)
	}
	if fieldMap == nil {
		return nil, model.ErrNotFound("field map %s not found", fieldMapID)
	}

	respawns, err := s.devices.ListByType(ctx, model.DeviceTypeRespawn)
	if err != nil {
		return nil, fmt.Errorf("list respawn devices: %w", err)
	}
	if len(respawns) < 2 {
		return nil, model.ErrInsufficientResources("at least two respawn devices are required to create a game, have %d", len(respawns))
	}

	now := s.now()
	gameDate := now
	if date != nil {
		gameDate = *date
	}

	groups := make([]model.Group, 0, len(respawns))
	for i, d := range respawns {
		tag := d.GroupTag
		if tag == "" {
			tag = d.Name
		}
		color := ""
		if i == 0 {
			color = "red"
		}
		groups = append(groups, model.Group{
			ID:    uuid.NewString(),
			Name:  fmt.Sprintf("Group %d", i+1),
			Color: color,
			Tag:   tag,
			Nodes: []model.GroupNode{},
		})
	}

	game := &model.Game{
		ID:           uuid.NewString(),
		Name:         name,
		Mode:         mode,
		Status:       model.GameStatusPlanned,
		FieldMapID:   fieldMapID,
		Date:         gameDate,
		Participants: []model.Participant{},
		Devices:      []model.GameDevice{},
		Groups:       groups,
		Results:      []model.GameResult{},
		CreatedAt:    now,
	}

	if err := s.games.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	if err := s.gameCache.SetStatus(ctx, game.ID, game.Status); err != nil {
		log.Printf("cache game %s status: %v", game.ID, err)
	}

	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, id string) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", id)
	}
	return game, nil
}

func (s *GameService) ListGames(ctx context.Context) ([]model.Game, error) {
	return s.games.List(ctx)
}

// Transition moves the game to the requested status, stamping start/end
// times. Illegal transitions fail; a lost race against a concurrent
// transition also surfaces as an invalid transition from the fresh status.
func (s *GameService) Transition(ctx context.Context, id string, to model.GameStatus) (*model.Game, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(game.Status, to) {
		return nil, model.ErrInvalidTransition("cannot transition game from %s to %s", game.Status, to)
	}

	now := s.now()
	var startedAt, endedAt *time.Time
	if to == model.GameStatusInProgress && game.StartTime == nil {
		startedAt = &now
	}
	if game.Status == model.GameStatusInProgress {
		endedAt = &now
	}

	ok, err := s.games.UpdateStatus(ctx, id, game.Status, to, startedAt, endedAt)
	if err != nil {
		return nil, fmt.Errorf("update game status: %w", err)
	}
	if !ok {
		return nil, model.ErrInvalidTransition("game %s changed status concurrently", id)
	}

	game.Status = to
	if startedAt != nil {
		game.StartTime = startedAt
	}
	if endedAt != nil {
		game.EndTime = endedAt
	}

	if err := s.gameCache.SetStatus(ctx, id, to); err != nil {
		log.Printf("cache game %s status: %v", id, err)
	}
	s.announce(game)

	return game, nil
}

// DeleteGame removes the game and all embedded children. Running games and
// games still scheduled in the future cannot be deleted.
func (s *GameService) DeleteGame(ctx context.Context, id string) error {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return err
	}

	if game.Status == model.GameStatusInProgress {
		return model.ErrPreconditionFailed("game %s is in progress and cannot be deleted", id)
	}
	if game.Date.After(s.now()) {
		return model.ErrPreconditionFailed("game %s is scheduled in the future and cannot be deleted", id)
	}

	if err := s.games.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if err := s.gameCache.Delete(ctx, id); err != nil {
		log.Printf("drop game %s status cache: %v", id, err)
	}
	if err := s.leaderboard.Clear(ctx, id); err != nil {
		log.Printf("drop game %s leaderboard: %v", id, err)
	}
	return nil
}

func transitionAllowed(from, to model.GameStatus) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *GameService) announce(game *model.Game) {
	if s.broadcaster == nil {
		return
	}
	var msg string
	switch game.Status {
	case model.GameStatusInProgress:
		msg = MsgGameStarted
	case model.GameStatusCompleted:
		msg = MsgGameCompleted
	case model.GameStatusCancelled:
		msg = MsgGameCancelled
	default:
		return
	}
	payload := map[string]interface{}{"gameId": game.ID, "status": game.Status}
	s.broadcaster.BroadcastToOperator(game.ID, msg, payload)
	s.broadcaster.BroadcastToWatchers(game.ID, msg, payload)
}
