package service

import (
	"context"
	"fmt"
	"strikeops/internal/model"
	"strikeops/internal/repository"
)

// LedgerService is the device assignment ledger: which catalog devices are
// attached to a game. Allocation to players happens in the group hierarchy;
// this ledger entry is the authoritative record for both.
type LedgerService struct {
	games   repository.GameRepo
	devices repository.DeviceRepo
}

func NewLedgerService(games repository.GameRepo, devices repository.DeviceRepo) *LedgerService {
	return &LedgerService{games: games, devices: devices}
}

// AssignToGame attaches a catalog device to the game. Uniqueness per
// (game, device) pair is enforced by a conditional insert. Cross-game
// exclusivity is deliberately not enforced.
func (s *LedgerService) AssignToGame(ctx context.Context, gameID, deviceID string) (*model.GameDevice, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrNotFound("game %s not found", gameID)
	}

	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	if device == nil {
		return nil, model.ErrNotFound("device %s not found", deviceID)
	}

	gd := model.GameDevice{
		DeviceID: deviceID,
		Name:     device.Name,
		Mac:      device.Mac,
		GroupTag: device.GroupTag,
		Status:   device.Status,
	}

	ok, err := s.games.AddDevice(ctx, gameID, gd)
	if err != nil {
		return nil, fmt.Errorf("add device: %w", err)
	}
	if !ok {
		return nil, model.ErrConflict("device %s is already assigned to game %s", deviceID, gameID)
	}
	return &gd, nil
}

// UnassignFromGame drops the ledger entry. Since the entry is the single
// allocation record, any group-level allocation disappears with it.
// Unassigning a device that is not on the game is a no-op.
func (s *LedgerService) UnassignFromGame(ctx context.Context, gameID, deviceID string) error {
	matched, err := s.games.RemoveDevice(ctx, gameID, deviceID)
	if err != nil {
		return fmt.Errorf("remove device: %w", err)
	}
	if !matched {
		return model.ErrNotFound("game %s not found", gameID)
	}
	return nil
}

// SetReturned marks whether the device has been handed back. Idempotent.
func (s *LedgerService) SetReturned(ctx context.Context, gameID, deviceID string, returned bool) error {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return model.ErrNotFound("game %s not found", gameID)
	}

	ok, err := s.games.SetDeviceReturned(ctx, gameID, deviceID, returned)
	if err != nil {
		return fmt.Errorf("set returned: %w", err)
	}
	if !ok {
		return model.ErrNotFound("device %s is not assigned to game %s", deviceID, gameID)
	}
	return nil
}
