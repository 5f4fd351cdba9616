package main

import (
	"context"
	"fmt"
	"log"
	"strikeops/internal/config"
	"strikeops/internal/model"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the catalogs with a local-dev roster: a field map, two respawn
// devices (the minimum for game creation), a handful of wearables, and a few
// players.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)
	now := time.Now()

	fieldMap := model.FieldMap{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Old Sawmill",
		Location:  "North woods, gate 3",
		CreatedAt: now,
	}
	if _, err := db.Collection("fieldmaps").InsertOne(ctx, fieldMap); err != nil {
		log.Fatalf("Failed to insert field map: %v", err)
	}

	devices := []model.Device{
		{Name: "Respawn Alpha", Mac: "AA:10:F2:00:00:01", Type: model.DeviceTypeRespawn, Status: model.DeviceOnline, GroupTag: "alpha"},
		{Name: "Respawn Bravo", Mac: "AA:10:F2:00:00:02", Type: model.DeviceTypeRespawn, Status: model.DeviceOnline, GroupTag: "bravo"},
		{Name: "Vest 01", Mac: "AA:10:F2:00:01:01", Type: model.DeviceTypeStandard, Status: model.DeviceOffline, GroupTag: "alpha"},
		{Name: "Vest 02", Mac: "AA:10:F2:00:01:02", Type: model.DeviceTypeStandard, Status: model.DeviceOffline, GroupTag: "alpha"},
		{Name: "Vest 03", Mac: "AA:10:F2:00:01:03", Type: model.DeviceTypeStandard, Status: model.DeviceOffline, GroupTag: "bravo"},
		{Name: "Vest 04", Mac: "AA:10:F2:00:01:04", Type: model.DeviceTypeStandard, Status: model.DeviceOffline, GroupTag: "bravo"},
		{Name: "Medic Box 01", Mac: "AA:10:F2:00:02:01", Type: model.DeviceTypeMedicBox, Status: model.DeviceOffline},
	}
	for i := range devices {
		devices[i].ID = primitive.NewObjectID().Hex()
		devices[i].CreatedAt = now
		if _, err := db.Collection("devices").InsertOne(ctx, devices[i]); err != nil {
			log.Fatalf("Failed to insert device %s: %v", devices[i].Name, err)
		}
	}

	players := []model.Player{
		{Name: "Alice Moreau", Callsign: "Viper"},
		{Name: "Ben Okafor", Callsign: "Anvil"},
		{Name: "Carla Diaz", Callsign: "Ghost"},
		{Name: "Denis Novak", Callsign: "Rook"},
	}
	for i := range players {
		players[i].ID = primitive.NewObjectID().Hex()
		players[i].CreatedAt = now
		if _, err := db.Collection("players").InsertOne(ctx, players[i]); err != nil {
			log.Fatalf("Failed to insert player %s: %v", players[i].Name, err)
		}
	}

	fmt.Printf("Seeded 1 field map, %d devices, %d players\n", len(devices), len(players))
}
