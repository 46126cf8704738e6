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

type MongoFlightRepo struct {
	DB *mongo.Client
}

func NewMongoFlightRepo(db *mongo.Client) *MongoFlightRepo {
	return &MongoFlightRepo{DB: db}
}

func (r *MongoFlightRepo) collection() *mongo.Collection {
	return r.DB.Database("trolleyseal").Collection("flights")
}

func (r *MongoFlightRepo) ListActive(ctx context.Context, since time.Time) ([]*models.Flight, error) {
	filter := bson.M{
		"status":     bson.M{"$ne": string(models.StatusDeleted)},
		"created_at": bson.M{"$gte": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []*models.Flight
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoFlightRepo) GetByID(ctx context.Context, id string) (*models.Flight, error) {
	flight := &models.Flight{}
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(flight)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return flight, nil
}

func (r *MongoFlightRepo) Insert(ctx context.Context, flight *models.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	if flight.CreatedAt.IsZero() {
		flight.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection().InsertOne(ctx, flight)
	return err
}

// SetStatus writes the new status. Deleted is terminal: once a flight is
// archived no other status may overwrite it.
func (r *MongoFlightRepo) SetStatus(ctx context.Context, id string, status models.FlightStatus) error {
	filter := bson.M{"_id": id}
	if status != models.StatusDeleted {
		filter["status"] = bson.M{"$ne": string(models.StatusDeleted)}
	}
	res, err := r.collection().UpdateOne(ctx,
		filter,
		bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFlightRepo) UpdateAuxiliary(ctx context.Context, id string, aux models.FlightAuxiliary) error {
	set := bson.M{}
	if aux.HiLift1 != nil {
		set["hi_lift_1"] = aux.HiLift1
	}
	if aux.HiLift2 != nil {
		set["hi_lift_2"] = aux.HiLift2
	}
	if aux.PadlockTotal != nil {
		set["padlock_total"] = *aux.PadlockTotal
	}
	if aux.DriverName != nil {
		set["driver_name"] = *aux.DriverName
	}
	if aux.DriverID != nil {
		set["driver_id"] = *aux.DriverID
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFlightRepo) UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error {
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pdf_path": path, "pdf_created_at": createdAt}})
	return err
}
