package projects

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Project) error
	Update(ctx context.Context, id string, set bson.M) (Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	CountFeatured(ctx context.Context, excludeID string) (int64, error)
	ListFeatured(ctx context.Context) ([]Project, error)
	SetOrderIndex(ctx context.Context, id string, orderIndex int) error
	PushImage(ctx context.Context, id string, url string) (bool, error)
	UnassignCategory(ctx context.Context, categoryID string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Project) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Project{}, err
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

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "order_index", Value: 1},
			{Key: "created_at", Value: -1},
		})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		opts.SetSkip(filter.Offset)
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var item Project
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

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Project, error) {
	var item Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Project{}, err
	}
	return item, nil
}

func (r *MongoRepository) CountFeatured(ctx context.Context, excludeID string) (int64, error) {
	query := bson.M{"is_featured": true}
	if excludeID != "" {
		query["_id"] = bson.M{"$ne": excludeID}
	}
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) ListFeatured(ctx context.Context) ([]Project, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "home_order", Value: 1},
		})

	cursor, err := r.col.Find(ctx, bson.M{"is_featured": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var item Project
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

func (r *MongoRepository) SetOrderIndex(ctx context.Context, id string, orderIndex int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"order_index": orderIndex}})
	return err
}

// PushImage appends atomically and only while the list is under the cap,
// so two concurrent appends cannot both land on a full list.
func (r *MongoRepository) PushImage(ctx context.Context, id string, url string) (bool, error) {
	filter := bson.M{
		"_id": id,
		"images." + strconv.Itoa(MaxImages-1): bson.M{"$exists": false},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"images": url}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRepository) UnassignCategory(ctx context.Context, categoryID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"category_id": categoryID},
		bson.M{"$set": bson.M{"category_id": ""}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
