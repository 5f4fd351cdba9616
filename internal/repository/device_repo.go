package repository

import (
	"context"
	"strikeops/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DeviceRepo is the externally-owned device catalog.
type DeviceRepo interface {
	Create(ctx context.Context, device *model.Device) error
	GetByID(ctx context.Context, id string) (*model.Device, error)
	List(ctx context.Context) ([]model.Device, error)
	ListByType(ctx context.Context, t model.DeviceType) ([]model.Device, error)
	ListByTag(ctx context.Context, tag string) ([]model.Device, error)
}

type deviceRepo struct {
	collection *mongo.Collection
}

func NewDeviceRepo(db *mongo.Database) DeviceRepo {
	return &deviceRepo{collection: db.Collection("devices")}
}

func (r *deviceRepo) Create(ctx context.Context, device *model.Device) error {
	if device.ID == "" {
		device.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, device)
	return err
}

func (r *deviceRepo) GetByID(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) List(ctx context.Context) ([]model.Device, error) {
	return r.find(ctx, bson.M{})
}

func (r *deviceRepo) ListByType(ctx context.Context, t model.DeviceType) ([]model.Device, error) {
	return r.find(ctx, bson.M{"type": t})
}

func (r *deviceRepo) ListByTag(ctx context.Context, tag string) ([]model.Device, error) {
	return r.find(ctx, bson.M{"groupTag": tag})
}

func (r *deviceRepo) find(ctx context.Context, filter bson.M) ([]model.Device, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var devices []model.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
