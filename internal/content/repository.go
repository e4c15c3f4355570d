package content

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Content) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Content, error)
	GetByID(ctx context.Context, id string) (Content, error)
	GetByFileName(ctx context.Context, fileName string) (Content, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Content) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List enumerates newest first with file_name as tiebreaker. Fuzzy
// resolution depends on this order being stable.
func (r *MongoRepository) List(ctx context.Context) ([]Content, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "file_name", Value: 1},
		})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Content, 0)
	for cursor.Next(ctx) {
		var item Content
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Content, error) {
	var item Content
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Content{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetByFileName(ctx context.Context, fileName string) (Content, error) {
	var item Content
	if err := r.col.FindOne(ctx, bson.M{"file_name": fileName}).Decode(&item); err != nil {
		return Content{}, err
	}
	return item, nil
}
