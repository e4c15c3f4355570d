package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Categories       *mongo.Collection
	Projects         *mongo.Collection
	InternalContent  *mongo.Collection
	ContactInfo      *mongo.Collection
	History          *mongo.Collection
	TrustedPartners  *mongo.Collection
	AboutImages      *mongo.Collection
	DownloadProfiles *mongo.Collection
	Admins           *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	database := client.Database(dbName)

	cols := &Collections{
		Categories:       database.Collection("project_categories"),
		Projects:         database.Collection("projects"),
		InternalContent:  database.Collection("internal_content"),
		ContactInfo:      database.Collection("contact_info"),
		History:          database.Collection("history"),
		TrustedPartners:  database.Collection("trusted_partners"),
		AboutImages:      database.Collection("about_images"),
		DownloadProfiles: database.Collection("download_profiles"),
		Admins:           database.Collection("admins"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Categories.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "order_index", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Projects.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "order_index", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "is_featured", Value: 1}, {Key: "home_order", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.InternalContent.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "file_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Admins.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
