package admin

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	Create(ctx context.Context, account Account) error
	GetByUsername(ctx context.Context, username string) (Account, bool, error)
	SetPasswordHash(ctx context.Context, id string, hash string, set bson.M) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, account Account) error {
	_, err := r.col.InsertOne(ctx, account)
	return err
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (Account, bool, error) {
	var account Account
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return Account{}, false, nil
	}
	if err != nil {
		return Account{}, false, err
	}
	return account, true, nil
}

func (r *MongoRepository) SetPasswordHash(ctx context.Context, id string, hash string, set bson.M) (bool, error) {
	if set == nil {
		set = bson.M{}
	}
	set["password_hash"] = hash

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
