package service

import (
	"context"
	"fmt"
	"strikeops/internal/model"
	"strikeops/internal/repository"
	"time"
)

// CatalogService fronts the standalone catalogs (players, devices, field
// maps). The game core only ever reads these; the write side exists for
// administration and seeding.
type CatalogService struct {
	players   repository.PlayerRepo
	devices   repository.DeviceRepo
	fieldMaps repository.FieldMapRepo
	now       func() time.Time
}

func NewCatalogService(players repository.PlayerRepo, devices repository.DeviceRepo, fieldMaps repository.FieldMapRepo) *CatalogService {
	return &CatalogService{players: players, devices: devices, fieldMaps: fieldMaps, now: time.Now}
}

func (s *CatalogService) CreatePlayer(ctx context.Context, name, callsign string) (*model.Player, error) {
	if name == "" {
		return nil, model.ErrValidation("player name is required")
	}
	player := &model.Player{Name: name, Callsign: callsign, CreatedAt: s.now()}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return player, nil
}

func (s *CatalogService) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, model.ErrNotFound("player %s not found", id)
	}
	return player, nil
}

func (s *CatalogService) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.players.List(ctx)
}

// CreateDeviceInput describes a new catalog device.
type CreateDeviceInput struct {
	Name     string             `json:"name"`
	Mac      string             `json:"mac"`
	Type     model.DeviceType   `json:"type"`
	Status   model.DeviceStatus `json:"status,omitempty"`
	GroupTag string             `json:"groupTag,omitempty"`
}

func (s *CatalogService) CreateDevice(ctx context.Context, in CreateDeviceInput) (*model.Device, error) {
	if in.Name == "" {
		return nil, model.ErrValidation("device name is required")
	}
	if in.Mac == "" {
		return nil, model.ErrValidation("device mac is required")
	}
	if in.Type == "" {
		in.Type = model.DeviceTypeStandard
	}
	if !model.ValidDeviceType(in.Type) {
		return nil, model.ErrValidation("unknown device type %q", in.Type)
	}
	if in.Status == "" {
		in.Status = model.DeviceOffline
	}

	device := &model.Device{
		Name:      in.Name,
		Mac:       in.Mac,
		Type:      in.Type,
		Status:    in.Status,
		GroupTag:  in.GroupTag,
		CreatedAt: s.now(),
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return device, nil
}

func (s *CatalogService) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, model.ErrNotFound("device %s not found", id)
	}
	return device, nil
}

// ListDevices filters by type and/or group tag when given.
func (s *CatalogService) ListDevices(ctx context.Context, deviceType model.DeviceType, tag string) ([]model.Device, error) {
	switch {
	case deviceType != "":
		if !model.ValidDeviceType(deviceType) {
			return nil, model.ErrValidation("unknown device type %q", deviceType)
		}
		return s.devices.ListByType(ctx, deviceType)
	case tag != "":
		return s.devices.ListByTag(ctx, tag)
	default:
		return s.devices.List(ctx)
	}
}

func (s *CatalogService) CreateFieldMap(ctx context.Context, name, location string) (*model.FieldMap, error) {
	if name == "" {
		return nil, model.ErrValidation("field map name is required")
	}
	fm := &model.FieldMap{Name: name, Location: location, CreatedAt: s.now()}
	if err := s.fieldMaps.Create(ctx, fm); err != nil {
		return nil, fmt.Errorf("create field map: %w", err)
	}
	return fm, nil
}

func (s *CatalogService) GetFieldMap(ctx context.Context, id string) (*model.FieldMap, error) {
	fm, err := s.fieldMaps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fm == nil {
		return nil, model.ErrNotFound("field map %s not found", id)
	}
	return fm, nil
}

func (s *CatalogService) ListFieldMaps(ctx context.Context) ([]model.FieldMap, error) {
	return s.fieldMaps.List(ctx)
}
