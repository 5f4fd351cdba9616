package service

import (
	"context"
	"fmt"
	"strikeops/internal/model"
	"strikeops/internal/repository"
)

// MsgGroupUpdated is the feed message type for group membership changes.
const MsgGroupUpdated = "group_updated"

// Group mutations are read-modify-write over the whole aggregate, guarded by
// the document revision; a lost save is retried against fresh state.
const maxAllocationRetries = 3

// GroupService manages the tactical group hierarchy and the per-group device
// pool allocation.
type GroupService struct {
	games       repository.GameRepo
	broadcaster Broadcaster
}

func NewGroupService(games repository.GameRepo) *GroupService {
	return &GroupService{games: games}
}

func (s *GroupService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GroupViews returns the group hierarchy with per-node device allocations
// projected from the game's device ledger.
func (s *GroupService) GroupViews(ctx context.Context, gameID string) ([]model.GroupView, error) {
	game, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.GroupViews(), nil
}

// AddPlayersToGroup adds the requested players to the group, handing each new
// node the next free device from the group's pool (tag-matched ledger entries
// without an allocation, in ledger order). Players already in the group are
// silently skipped; when the pool runs dry, nodes are created without a
// device. Returns the number of nodes actually added.
func (s *GroupService) AddPlayersToGroup(ctx context.Context, gameID, groupID string, playerIDs []string, playerType model.PlayerType) (int, error) {
	if playerType == "" {
		playerType = model.PlayerTypeNormal
	}
	if !model.ValidPlayerType(playerType) {
		return 0, model.ErrValidation("unknown player type %q", playerType)
	}

	for attempt := 0; attempt < maxAllocationRetries; attempt++ {
		game, err := s.load(ctx, gameID)
		if err != nil {
			return 0, err
		}

		group := game.GroupByID(groupID)
		if group == nil {
			return 0, model.ErrNotFound("group %s not found in game %s", groupID, gameID)
		}

		// The hierarchy partitions registered players; reject unknowns before
		// touching anything so the operation stays all-or-nothing.
		for _, pid := range playerIDs {
			if game.ParticipantByPlayer(pid) == nil {
				return 0, model.ErrValidation("player %s is not registered to game %s", pid, gameID)
			}
		}

		pool := game.AvailablePool(group)
		added := 0
		seen := make(map[string]bool, len(playerIDs))

		for _, pid := range playerIDs {
			if seen[pid] || group.NodeByPlayer(pid) != nil {
				continue
			}
			seen[pid] = true

			participant := game.ParticipantByPlayer(pid)
			group.Nodes = append(group.Nodes, model.GroupNode{
				PlayerID:   pid,
				PlayerName: participant.Name,
				PlayerType: playerType,
				Present:    participant.Present,
			})
			participant.GroupID = group.ID

			if len(pool) > 0 {
				d := pool[0]
				pool = pool[1:]
				d.AssignedPlayerID = pid
				d.GroupID = group.ID
			}
			added++
		}

		if added == 0 {
			return 0, nil
		}

		ok, err := s.games.ReplaceRevision(ctx, game)
		if err != nil {
			return 0, fmt.Errorf("save group allocation: %w", err)
		}
		if ok {
			s.announceGroup(gameID, group.ID)
			return added, nil
		}
	}

	return 0, model.ErrConflict("game %s was modified concurrently, retry the request", gameID)
}

// RemovePlayerFromGroup deletes the player's node and releases their devices
// back to the pool. Removing a non-member is a no-op.
func (s *GroupService) RemovePlayerFromGroup(ctx context.Context, gameID, groupID, playerID string) error {
	for attempt := 0; attempt < maxAllocationRetries; attempt++ {
		game, err := s.load(ctx, gameID)
		if err != nil {
			return err
		}

		group := game.GroupByID(groupID)
		if group == nil {
			return model.ErrNotFound("group %s not found in game %s", groupID, gameID)
		}
		if group.NodeByPlayer(playerID) == nil {
			return nil
		}

		nodes := group.Nodes[:0]
		for _, n := range group.Nodes {
			if n.PlayerID != playerID {
				nodes = append(nodes, n)
			}
		}
		group.Nodes = nodes

		for i := range game.Devices {
			d := &game.Devices[i]
			if d.GroupID == groupID && d.AssignedPlayerID == playerID {
				d.AssignedPlayerID = ""
				d.GroupID = ""
			}
		}
		if p := game.ParticipantByPlayer(playerID); p != nil && p.GroupID == groupID {
			p.GroupID = ""
		}

		ok, err := s.games.ReplaceRevision(ctx, game)
		if err != nil {
			return fmt.Errorf("save group removal: %w", err)
		}
		if ok {
			s.announceGroup(gameID, groupID)
			return nil
		}
	}

	return model.ErrConflict("game %s was modified concurrently, retry the request", gameID)
}

// ToggleDeviceReturn flips the returned flag on the device allocated to the
// player within the group.
func (s *GroupService) ToggleDeviceReturn(ctx context.Context, gameID, groupID, playerID, deviceID string) (*model.NodeDevice, error) {
	for attempt := 0; attempt < maxAllocationRetries; attempt++ {
		game, err := s.load(ctx, gameID)
		if err != nil {
			return nil, err
		}

		group := game.GroupByID(groupID)
		if group == nil {
			return nil, model.ErrNotFound("group %s not found in game %s", groupID, gameID)
		}
		if group.NodeByPlayer(playerID) == nil {
			return nil, model.ErrNotFound("player %s has no node in group %s", playerID, groupID)
		}

		var device *model.GameDevice
		for i := range game.Devices {
			d := &game.Devices[i]
			if d.DeviceID == deviceID && d.GroupID == groupID && d.AssignedPlayerID == playerID {
				device = d
				break
			}
		}
		if device == nil {
			return nil, model.ErrNotFound("device %s is not allocated to player %s in group %s", deviceID, playerID, groupID)
		}

		device.Returned = !device.Returned

		ok, err := s.games.ReplaceRevision(ctx, game)
		if err != nil {
			return nil, fmt.Errorf("save device return: %w", err)
		}
		if ok {
			s.announceGroup(gameID, groupID)
			return &model.NodeDevice{
				DeviceID:   device.DeviceID,
				DeviceName: device.Name,
				MacAddress: device.Mac,
				IsReturned: device.Returned,
			}, nil
		}
	}

	return nil, model.ErrConflict("game %s was modified concurrently, retry the request", gameID)
}

func (s *GroupService) load(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}
	return game, nil
}

func (s *GroupService) announceGroup(gameID, groupID string) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToOperator(gameID, MsgGroupUpdated, map[string]string{"gameId": gameID, "groupId": groupID})
}
