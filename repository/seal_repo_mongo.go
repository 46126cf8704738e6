package repository

import (
	"context"
	"time"

	"trolleyseal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSealRepo struct {
	DB *mongo.Client
}

func NewMongoSealRepo(db *mongo.Client) *MongoSealRepo {
	return &MongoSealRepo{DB: db}
}

func (r *MongoSealRepo) collection() *mongo.Collection {
	return r.DB.Database("trolleyseal").Collection("seal_scans")
}

func (r *MongoSealRepo) ListByFlight(ctx context.Context, flightID string, kind models.EquipmentKind) ([]models.SealScan, error) {
	filter := bson.M{"flight_id": flightID}
	if kind != "" {
		filter["equipment_type"] = string(kind)
	}

	opts := options.Find().SetSort(bson.D{{Key: "scanned_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []models.SealScan
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoSealRepo) Insert(ctx context.Context, scan *models.SealScan) error {
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now().UTC()
	}
	_, err := r.collection().InsertOne(ctx, scan)
	return err
}

func (r *MongoSealRepo) Delete(ctx context.Context, sealID string) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": sealID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoSealRepo) CountByFlight(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$flight_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int)
	for cur.Next(ctx) {
		var row struct {
			FlightID string `bson:"_id"`
			Count    int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.FlightID] = row.Count
	}
	return counts, cur.Err()
}
