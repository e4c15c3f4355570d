package categories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Category) error
	Update(ctx context.Context, id string, set bson.M) (Category, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)
	SetOrderIndex(ctx context.Context, id string, orderIndex int) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Category) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Category, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Category
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Category{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Category, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "order_index", Value: 1},
			{Key: "created_at", Value: 1},
		})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Category, 0)
	for cursor.Next(ctx) {
		var item Category
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

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Category, error) {
	var item Category
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Category{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Category, error) {
	var item Category
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&item); err != nil {
		return Category{}, err
	}
	return item, nil
}

func (r *MongoRepository) SetOrderIndex(ctx context.Context, id string, orderIndex int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"order_index": orderIndex}})
	return err
}
