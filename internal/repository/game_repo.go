package repository

import (
	"context"
	"strikeops/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepo stores game aggregates. Mutating methods that return a bool report
// whether the conditional write matched; callers translate a false into the
// appropriate domain error. Uniqueness-guarded inserts are single conditional
// updates, never read-then-write pairs.
//
// Every targeted update also bumps the document revision, so a concurrent
// ReplaceRevision of stale state loses its race instead of erasing the write.
type GameRepo interface {
	Create(ctx context.Context, game *model.Game) error
	GetByID(ctx context.Context, id string) (*model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	Delete(ctx context.Context, id string) error

	// UpdateStatus moves the game from one status to another, stamping the
	// optional time bounds. Returns false when the game is missing or no
	// longer in the from status.
	UpdateStatus(ctx context.Context, id string, from, to model.GameStatus, startedAt, endedAt *time.Time) (bool, error)

	// AddParticipant inserts the participant only if no entry with the same
	// playerId exists. Returns false on duplicate (or missing game).
	AddParticipant(ctx context.Context, gameID string, p model.Participant) (bool, error)
	// RemoveParticipant pulls the participant, their group nodes, and clears
	// any ledger allocations held by them. Returns false if the game is
	// missing.
	RemoveParticipant(ctx context.Context, gameID, playerID string) (bool, error)
	SetParticipantPresence(ctx context.Context, gameID, playerID string, present bool) (bool, error)

	// AddDevice inserts the ledger entry only if no entry with the same
	// deviceId exists. Returns false on duplicate (or missing game).
	AddDevice(ctx context.Context, gameID string, d model.GameDevice) (bool, error)
	RemoveDevice(ctx context.Context, gameID, deviceID string) (bool, error)
	SetDeviceReturned(ctx context.Context, gameID, deviceID string, returned bool) (bool, error)

	// ReplaceRevision swaps the whole document iff its revision still matches
	// game.Revision, bumping the revision. Returns false when another writer
	// got there first.
	ReplaceRevision(ctx context.Context, game *model.Game) (bool, error)

	// AppendResult pushes the result iff the game is still in the given
	// status. Returns false otherwise.
	AppendResult(ctx context.Context, gameID string, status model.GameStatus, res model.GameResult) (bool, error)
}

type gameRepo struct {
	collection *mongo.Collection
}

func NewGameRepo(db *mongo.Database) GameRepo {
	return &gameRepo{collection: db.Collection("games")}
}

func (r *gameRepo) Create(ctx context.Context, game *model.Game) error {
	_, err := r.collection.InsertOne(ctx, game)
	return err
}

func (r *gameRepo) GetByID(ctx context.Context, id string) (*model.Game, error) {
	var game model.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

func (r *gameRepo) List(ctx context.Context) ([]model.Game, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []model.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *gameRepo) UpdateStatus(ctx context.Context, id string, from, to model.GameStatus, startedAt, endedAt *time.Time) (bool, error) {
	set := bson.M{"status": to}
	if startedAt != nil {
		set["startTime"] = startedAt
	}
	if endedAt != nil {
		set["endTime"] = endedAt
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) AddParticipant(ctx context.Context, gameID string, p model.Participant) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID, "participants.playerId": bson.M{"$ne": p.PlayerID}},
		bson.M{"$push": bson.M{"participants": p}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) RemoveParticipant(ctx context.Context, gameID, playerID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID},
		bson.M{
			"$pull": bson.M{
				"participants":     bson.M{"playerId": playerID},
				"groups.$[].nodes": bson.M{"playerId": playerID},
			},
			"$set": bson.M{
				"devices.$[d].assignedPlayerId": "",
				"devices.$[d].groupId":          "",
			},
			"$inc": bson.M{"revision": 1},
		},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"d.assignedPlayerId": playerID}},
		}),
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) SetParticipantPresence(ctx context.Context, gameID, playerID string, present bool) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID, "participants.playerId": playerID},
		bson.M{"$set": bson.M{"participants.$.present": present}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) AddDevice(ctx context.Context, gameID string, d model.GameDevice) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID, "devices.deviceId": bson.M{"$ne": d.DeviceID}},
		bson.M{"$push": bson.M{"devices": d}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) RemoveDevice(ctx context.Context, gameID, deviceID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID},
		bson.M{"$pull": bson.M{"devices": bson.M{"deviceId": deviceID}}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) SetDeviceReturned(ctx context.Context, gameID, deviceID string, returned bool) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID, "devices.deviceId": deviceID},
		bson.M{"$set": bson.M{"devices.$.returned": returned}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) ReplaceRevision(ctx context.Context, game *model.Game) (bool, error) {
	current := game.Revision
	game.Revision = current + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": game.ID, "revision": current}, game)
	if err != nil || res.MatchedCount == 0 {
		game.Revision = current
	}
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *gameRepo) AppendResult(ctx context.Context, gameID string, status model.GameStatus, res model.GameResult) (bool, error) {
	out, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": gameID, "status": status},
		bson.M{"$push": bson.M{"results": res}, "$inc": bson.M{"revision": 1}},
	)
	if err != nil {
		return false, err
	}
	return out.MatchedCount == 1, nil
}
