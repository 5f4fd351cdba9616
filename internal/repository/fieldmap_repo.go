package repository

import (
	"context"
	"strikeops/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FieldMapRepo is the field map registry. Games reference maps by id.
type FieldMapRepo interface {
	Create(ctx context.Context, fm *model.FieldMap) error
	GetByID(ctx context.Context, id string) (*model.FieldMap, error)
	List(ctx context.Context) ([]model.FieldMap, error)
}

type fieldMapRepo struct {
	collection *mongo.Collection
}

func NewFieldMapRepo(db *mongo.Database) FieldMapRepo {
	return &fieldMapRepo{collection: db.Collection("fieldmaps")}
}

func (r *fieldMapRepo) Create(ctx context.Context, fm *model.FieldMap) error {
	if fm.ID == "" {
		fm.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, fm)
	return err
}

func (r *fieldMapRepo) GetByID(ctx context.Context, id string) (*model.FieldMap, error) {
	var fm model.FieldMap
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&fm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &fm, nil
}

func (r *fieldMapRepo) List(ctx context.Context) ([]model.FieldMap, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var maps []model.FieldMap
	if err := cursor.All(ctx, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}
