package service

import (
	"context"
	"strikeops/internal/model"
	"sync"
	"testing"
)

// rosteredGame creates a game with all four players registered and the alpha
// vests on the ledger.
func rosteredGame(t *testing.T, fx *fixture) *model.Game {
	t.Helper()
	game := fx.createGame(t)
	fx.register(t, game.ID, "p-alice", "p-ben", "p-carla", "p-denis")
	fx.assign(t, game.ID, "d-vest-1", "d-vest-2")
	return game
}

func nodeDevices(t *testing.T, fx *fixture, gameID, groupID, playerID string) []model.NodeDevice {
	t.Helper()
	views, err := fx.groupSvc.GroupViews(context.Background(), gameID)
	if err != nil {
		t.Fatalf("group views: %v", err)
	}
	for _, gv := range views {
		if gv.ID != groupID {
			continue
		}
		for _, n := range gv.Nodes {
			if n.PlayerID == playerID {
				return n.Devices
			}
		}
	}
	return nil
}

func TestAddPlayersAllocatesPoolInLedgerOrder(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	added, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice", "p-ben"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 nodes added, got %d", added)
	}

	aliceDevices := nodeDevices(t, fx, game.ID, alpha.ID, "p-alice")
	benDevices := nodeDevices(t, fx, game.ID, alpha.ID, "p-ben")
	if len(aliceDevices) != 1 || aliceDevices[0].DeviceID != "d-vest-1" {
		t.Fatalf("expected the first player to get the first free device, got %+v", aliceDevices)
	}
	if len(benDevices) != 1 || benDevices[0].DeviceID != "d-vest-2" {
		t.Fatalf("expected the second player to get the next free device, got %+v", benDevices)
	}

	stored, err := fx.gameSvc.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if p := stored.ParticipantByPlayer("p-alice"); p.GroupID != alpha.ID {
		t.Fatalf("expected participant groupId to track membership, got %q", p.GroupID)
	}
}

func TestAddPlayersSkipsExistingMembers(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	if _, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice", "p-ben"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("first add: %v", err)
	}

	added, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-ben", "p-carla"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected only the new player to be added, got %d", added)
	}

	views, err := fx.groupSvc.GroupViews(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("group views: %v", err)
	}
	if got := len(views[0].Nodes); got != 3 {
		t.Fatalf("expected 3 nodes, got %d", got)
	}
}

func TestAddPlayersPoolExhaustion(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	// Three players, two alpha-tagged devices on the ledger.
	added, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice", "p-ben", "p-carla"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected all 3 nodes to be created, got %d", added)
	}

	views, err := fx.groupSvc.GroupViews(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("group views: %v", err)
	}

	allocated := 0
	seenDevice := make(map[string]string)
	for _, n := range views[0].Nodes {
		for _, d := range n.Devices {
			if owner, dup := seenDevice[d.DeviceID]; dup {
				t.Fatalf("device %s allocated to both %s and %s", d.DeviceID, owner, n.PlayerID)
			}
			seenDevice[d.DeviceID] = n.PlayerID
			allocated++
		}
	}
	if allocated != 2 {
		t.Fatalf("expected exactly 2 devices allocated, got %d", allocated)
	}
}

func TestAddPlayersIgnoresRequestDuplicates(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	added, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice", "p-alice"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected duplicate ids in one request to collapse, got %d", added)
	}
}

func TestAddPlayersPoolIsTagScoped(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	bravo := game.Groups[1]

	// Only alpha vests are on the ledger, so the bravo pool is empty.
	added, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, bravo.ID, []string{"p-denis"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected the node without a device, got %d added", added)
	}
	if devices := nodeDevices(t, fx, game.ID, bravo.ID, "p-denis"); len(devices) != 0 {
		t.Fatalf("expected no allocation from a foreign tag pool, got %+v", devices)
	}
}

func TestAddPlayersUnknownGroup(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)

	_, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, "grp-missing", []string{"p-alice"}, model.PlayerTypeNormal)
	if !model.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddPlayersRejectsUnregisteredPlayer(t *testing.T) {
	fx := newFixture()
	game := fx.createGame(t)
	fx.register(t, game.ID, "p-alice")
	alpha := game.Groups[0]

	_, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice", "p-ben"}, model.PlayerTypeNormal)
	if !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// All-or-nothing: the registered player must not have been added either.
	views, err := fx.groupSvc.GroupViews(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("group views: %v", err)
	}
	if len(views[0].Nodes) != 0 {
		t.Fatalf("expected no partial membership, got %d nodes", len(views[0].Nodes))
	}
}

func TestAddPlayersInvalidPlayerType(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	_, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, "warlord")
	if !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemovePlayerReleasesDevice(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	if _, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := fx.groupSvc.RemovePlayerFromGroup(context.Background(), game.ID, alpha.ID, "p-alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// The released device goes back to the head of the pool.
	if _, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-ben"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	devices := nodeDevices(t, fx, game.ID, alpha.ID, "p-ben")
	if len(devices) != 1 || devices[0].DeviceID != "d-vest-1" {
		t.Fatalf("expected the released device to be reallocated, got %+v", devices)
	}

	stored, err := fx.gameSvc.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if p := stored.ParticipantByPlayer("p-alice"); p.GroupID != "" {
		t.Fatalf("expected participant groupId to be cleared, got %q", p.GroupID)
	}
}

func TestRemoveNonMemberIsNoOp(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	if err := fx.groupSvc.RemovePlayerFromGroup(context.Background(), game.ID, alpha.ID, "p-carla"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestToggleDeviceReturn(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	if _, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("add: %v", err)
	}

	nd, err := fx.groupSvc.ToggleDeviceReturn(context.Background(), game.ID, alpha.ID, "p-alice", "d-vest-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !nd.IsReturned {
		t.Fatal("expected first toggle to mark returned")
	}

	nd, err = fx.groupSvc.ToggleDeviceReturn(context.Background(), game.ID, alpha.ID, "p-alice", "d-vest-1")
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if nd.IsReturned {
		t.Fatal("expected second toggle to clear the flag")
	}
}

func TestToggleDeviceReturnWrongAllocation(t *testing.T) {
	fx := newFixture()
	game := rosteredGame(t, fx)
	alpha := game.Groups[0]

	if _, err := fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("add: %v", err)
	}

	// d-vest-2 is on the ledger but not allocated to alice.
	_, err := fx.groupSvc.ToggleDeviceReturn(context.Background(), game.ID, alpha.ID, "p-alice", "d-vest-2")
	if !model.IsNotFound(err) {
		t.Fatalf("expected not found for a device the player does not hold, got %v", err)
	}
}

// hookedGameRepo runs a one-shot hook right before the first optimistic save,
// simulating another operation landing between a load and its ReplaceRevision.
type hookedGameRepo struct {
	*memoryGameRepo
	beforeReplace func()
}

func (r *hookedGameRepo) ReplaceRevision(ctx context.Context, game *model.Game) (bool, error) {
	if r.beforeReplace != nil {
		hook := r.beforeReplace
		r.beforeReplace = nil
		hook()
	}
	return r.memoryGameRepo.ReplaceRevision(ctx, game)
}

func TestAddPlayersSurvivesInterleavedRegistration(t *testing.T) {
	fx := newFixture()
	game := fx.createGame(t)
	fx.register(t, game.ID, "p-alice")
	fx.assign(t, game.ID, "d-vest-1")
	alpha := game.Groups[0]

	repo := &hookedGameRepo{memoryGameRepo: fx.games}
	repo.beforeReplace = func() {
		ok, err := fx.games.AddParticipant(context.Background(), game.ID, model.Participant{
			PlayerID:     "p-ben",
			Name:         "Ben Okafor",
			RegisteredAt: fixedTime,
		})
		if err != nil || !ok {
			t.Fatalf("interleaved registration: ok=%v err=%v", ok, err)
		}
	}
	svc := NewGroupService(repo)

	added, err := svc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, model.PlayerTypeNormal)
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 node added after the retry, got %d", added)
	}

	stored, err := fx.games.GetByID(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if stored.ParticipantByPlayer("p-ben") == nil {
		t.Fatal("registration that landed during the group save was erased")
	}
	if stored.GroupByID(alpha.ID).NodeByPlayer("p-alice") == nil {
		t.Fatal("expected the group mutation to land as well")
	}
}

func TestAddPlayersSurvivesInterleavedResultAppend(t *testing.T) {
	fx := newFixture()
	game := fx.createGame(t)
	fx.register(t, game.ID, "p-alice")
	fx.assign(t, game.ID, "d-vest-1")
	fx.start(t, game.ID)
	alpha := game.Groups[0]

	repo := &hookedGameRepo{memoryGameRepo: fx.games}
	repo.beforeReplace = func() {
		ok, err := fx.games.AppendResult(context.Background(), game.ID, model.GameStatusInProgress, model.GameResult{
			ID:        "res-1",
			Type:      model.ResultKill,
			PlayerID:  "p-alice",
			Timestamp: fixedTime,
		})
		if err != nil || !ok {
			t.Fatalf("interleaved result append: ok=%v err=%v", ok, err)
		}
	}
	svc := NewGroupService(repo)

	if _, err := svc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{"p-alice"}, model.PlayerTypeNormal); err != nil {
		t.Fatalf("add players: %v", err)
	}

	stored, err := fx.games.GetByID(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if len(stored.Results) != 1 || stored.Results[0].ID != "res-1" {
		t.Fatalf("result appended during the group save was erased, results: %+v", stored.Results)
	}
}

func TestConcurrentAddPlayersNoDoubleAllocation(t *testing.T) {
	fx := newFixture()
	game := fx.createGame(t)
	fx.register(t, game.ID, "p-alice", "p-ben")
	fx.assign(t, game.ID, "d-vest-1")
	alpha := game.Groups[0]

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, pid := range []string{"p-alice", "p-ben"} {
		wg.Add(1)
		go func(i int, pid string) {
			defer wg.Done()
			_, errs[i] = fx.groupSvc.AddPlayersToGroup(context.Background(), game.ID, alpha.ID, []string{pid}, model.PlayerTypeNormal)
		}(i, pid)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && !model.IsConflict(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	views, err := fx.groupSvc.GroupViews(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("group views: %v", err)
	}

	holders := make(map[string][]string)
	for _, n := range views[0].Nodes {
		for _, d := range n.Devices {
			holders[d.DeviceID] = append(holders[d.DeviceID], n.PlayerID)
		}
	}
	if len(holders["d-vest-1"]) > 1 {
		t.Fatalf("device allocated twice: %v", holders["d-vest-1"])
	}
}
