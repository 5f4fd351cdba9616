package service

import (
	"context"
	"sort"
	"strikeops/internal/cache"
	"strikeops/internal/model"
	"sync"
	"time"
)

// memoryGameRepo implements repository.GameRepo with the same conditional
// write semantics as the Mongo implementation, under a single mutex so the
// concurrency properties can be exercised in tests. Like the Mongo store,
// every targeted mutation bumps the revision so ReplaceRevision detects
// interleaved writes.
type memoryGameRepo struct {
	mu    sync.Mutex
	games map[string]*model.Game
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{games: make(map[string]*model.Game)}
}

func copyGame(g *model.Game) *model.Game {
	out := *g
	out.Participants = append([]model.Participant(nil), g.Participants...)
	out.Devices = append([]model.GameDevice(nil), g.Devices...)
	out.Results = append([]model.GameResult(nil), g.Results...)
	out.Groups = make([]model.Group, len(g.Groups))
	for i, gr := range g.Groups {
		out.Groups[i] = gr
		out.Groups[i].Nodes = append([]model.GroupNode(nil), gr.Nodes...)
	}
	if g.StartTime != nil {
		t := *g.StartTime
		out.StartTime = &t
	}
	if g.EndTime != nil {
		t := *g.EndTime
		out.EndTime = &t
	}
	return &out
}

func (r *memoryGameRepo) Create(ctx context.Context, game *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID] = copyGame(game)
	return nil
}

func (r *memoryGameRepo) GetByID(ctx context.Context, id string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	return copyGame(g), nil
}

func (r *memoryGameRepo) List(ctx context.Context) ([]model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	for _, g := range r.games {
		out = append(out, *copyGame(g))
	}
	return out, nil
}

func (r *memoryGameRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
	return nil
}

func (r *memoryGameRepo) UpdateStatus(ctx context.Context, id string, from, to model.GameStatus, startedAt, endedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.Status != from {
		return false, nil
	}
	g.Status = to
	if startedAt != nil {
		t := *startedAt
		g.StartTime = &t
	}
	if endedAt != nil {
		t := *endedAt
		g.EndTime = &t
	}
	g.Revision++
	return true, nil
}

func (r *memoryGameRepo) AddParticipant(ctx context.Context, gameID string, p model.Participant) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	for _, existing := range g.Participants {
		if existing.PlayerID == p.PlayerID {
			return false, nil
		}
	}
	g.Participants = append(g.Participants, p)
	g.Revision++
	return true, nil
}

func (r *memoryGameRepo) RemoveParticipant(ctx context.Context, gameID, playerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	participants := g.Participants[:0]
	for _, p := range g.Participants {
		if p.PlayerID != playerID {
			participants = append(participants, p)
		}
	}
	g.Participants = participants
	for i := range g.Groups {
		nodes := g.Groups[i].Nodes[:0]
		for _, n := range g.Groups[i].Nodes {
			if n.PlayerID != playerID {
				nodes = append(nodes, n)
			}
		}
		g.Groups[i].Nodes = nodes
	}
	for i := range g.Devices {
		if g.Devices[i].AssignedPlayerID == playerID {
			g.Devices[i].AssignedPlayerID = ""
			g.Devices[i].GroupID = ""
		}
	}
	g.Revision++
	return true, nil
}

func (r *memoryGameRepo) SetParticipantPresence(ctx context.Context, gameID, playerID string, present bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	for i := range g.Participants {
		if g.Participants[i].PlayerID == playerID {
			g.Participants[i].Present = present
			g.Revision++
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryGameRepo) AddDevice(ctx context.Context, gameID string, d model.GameDevice) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	for _, existing := range g.Devices {
		if existing.DeviceID == d.DeviceID {
			return false, nil
		}
	}
	g.Devices = append(g.Devices, d)
	g.Revision++
	return true, nil
}

func (r *memoryGameRepo) RemoveDevice(ctx context.Context, gameID, deviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	devices := g.Devices[:0]
	for _, d := range g.Devices {
		if d.DeviceID != deviceID {
			devices = append(devices, d)
		}
	}
	g.Devices = devices
	g.Revision++
	return true, nil
}

func (r *memoryGameRepo) SetDeviceReturned(ctx context.Context, gameID, deviceID string, returned bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return false, nil
	}
	for i := range g.Devices {
		if g.Devices[i].DeviceID == deviceID {
			g.Devices[i].Returned = returned
			g.Revision++
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryGameRepo) ReplaceRevision(ctx context.Context, game *model.Game) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.games[game.ID]
	if !ok || stored.Revision != game.Revision {
		return false, nil
	}
	game.Revision++
	r.games[game.ID] = copyGame(game)
	return true, nil
}

func (r *memoryGameRepo) AppendResult(ctx context.Context, gameID string, status model.GameStatus, res model.GameResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok || g.Status != status {
		return false, nil
	}
	g.Results = append(g.Results, res)
	g.Revision++
	return true, nil
}

type fakePlayerRepo struct {
	players map[string]*model.Player
}

func newFakePlayerRepo(players ...*model.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[string]*model.Player)}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *model.Player) error {
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	return r.players[id], nil
}

func (r *fakePlayerRepo) List(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out, nil
}

type fakeDeviceRepo struct {
	devices []*model.Device
}

func newFakeDeviceRepo(devices ...*model.Device) *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: devices}
}

func (r *fakeDeviceRepo) Create(ctx context.Context, device *model.Device) error {
	r.devices = append(r.devices, device)
	return nil
}

func (r *fakeDeviceRepo) GetByID(ctx context.Context, id string) (*model.Device, error) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDeviceRepo) List(ctx context.Context) ([]model.Device, error) {
	var out []model.Device
	for _, d := range r.devices {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDeviceRepo) ListByType(ctx context.Context, t model.DeviceType) ([]model.Device, error) {
	var out []model.Device
	for _, d := range r.devices {
		if d.Type == t {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) ListByTag(ctx context.Context, tag string) ([]model.Device, error) {
	var out []model.Device
	for _, d := range r.devices {
		if d.GroupTag == tag {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeFieldMapRepo struct {
	maps map[string]*model.FieldMap
}

func newFakeFieldMapRepo(maps ...*model.FieldMap) *fakeFieldMapRepo {
	r := &fakeFieldMapRepo{maps: make(map[string]*model.FieldMap)}
	for _, fm := range maps {
		r.maps[fm.ID] = fm
	}
	return r
}

func (r *fakeFieldMapRepo) Create(ctx context.Context, fm *model.FieldMap) error {
	r.maps[fm.ID] = fm
	return nil
}

func (r *fakeFieldMapRepo) GetByID(ctx context.Context, id string) (*model.FieldMap, error) {
	return r.maps[id], nil
}

func (r *fakeFieldMapRepo) List(ctx context.Context) ([]model.FieldMap, error) {
	var out []model.FieldMap
	for _, fm := range r.maps {
		out = append(out, *fm)
	}
	return out, nil
}

// fakeLeaderboard implements cache.LeaderboardCache in memory.
type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]map[string]int
	syncs  int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]map[string]int)}
}

func (f *fakeLeaderboard) IncrScore(ctx context.Context, gameID, playerID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scores[gameID] == nil {
		f.scores[gameID] = make(map[string]int)
	}
	f.scores[gameID][playerID] += delta
	return nil
}

func (f *fakeLeaderboard) Sync(ctx context.Context, gameID string, lines []model.RankLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	scores := make(map[string]int, len(lines))
	for _, l := range lines {
		scores[l.PlayerID] = l.Total
	}
	f.scores[gameID] = scores
	return nil
}

func (f *fakeLeaderboard) Top(ctx context.Context, gameID string, limit int) ([]cache.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []cache.Entry
	for pid, score := range f.scores[gameID] {
		entries = append(entries, cache.Entry{PlayerID: pid, Score: score})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Score > entries[b].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (f *fakeLeaderboard) Clear(ctx context.Context, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scores, gameID)
	return nil
}

// fakeGameCache implements cache.GameCache in memory.
type fakeGameCache struct {
	mu       sync.Mutex
	statuses map[string]model.GameStatus
}

func newFakeGameCache() *fakeGameCache {
	return &fakeGameCache{statuses: make(map[string]model.GameStatus)}
}

func (f *fakeGameCache) SetStatus(ctx context.Context, gameID string, status model.GameStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[gameID] = status
	return nil
}

func (f *fakeGameCache) GetStatus(ctx context.Context, gameID string) (model.GameStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[gameID], nil
}

func (f *fakeGameCache) Delete(ctx context.Context, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.statuses, gameID)
	return nil
}
