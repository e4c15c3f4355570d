package sitecontent

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetContact(ctx context.Context) (ContactInfo, bool, error)
	PutContact(ctx context.Context, info ContactInfo) error

	ListHistory(ctx context.Context) ([]HistoryEntry, error)
	CreateHistory(ctx context.Context, item HistoryEntry) error
	UpdateHistory(ctx context.Context, id string, set bson.M) (HistoryEntry, error)
	DeleteHistory(ctx context.Context, id string) (bool, error)

	ListPartners(ctx context.Context, activeOnly bool) ([]TrustedPartner, error)
	CreatePartner(ctx context.Context, item TrustedPartner) error
	UpdatePartner(ctx context.Context, id string, set bson.M) (TrustedPartner, error)
	DeletePartner(ctx context.Context, id string) (bool, error)

	ListAboutImages(ctx context.Context, activeOnly bool) ([]AboutImage, error)
	CreateAboutImage(ctx context.Context, item AboutImage) error
	UpdateAboutImage(ctx context.Context, id string, set bson.M) (AboutImage, error)
	DeleteAboutImage(ctx context.Context, id string) (bool, error)

	ListProfiles(ctx context.Context, activeOnly bool) ([]DownloadProfile, error)
	CreateProfile(ctx context.Context, item DownloadProfile) error
	UpdateProfile(ctx context.Context, id string, set bson.M) (DownloadProfile, error)
	DeleteProfile(ctx context.Context, id string) (bool, error)
}

type Collections struct {
	ContactInfo      *mongo.Collection
	History          *mongo.Collection
	TrustedPartners  *mongo.Collection
	AboutImages      *mongo.Collection
	DownloadProfiles *mongo.Collection
}

type MongoRepository struct {
	cols Collections
}

func NewRepository(cols Collections) *MongoRepository {
	return &MongoRepository{cols: cols}
}

var orderedSort = options.Find().SetSort(bson.D{
	{Key: "order_index", Value: 1},
	{Key: "created_at", Value: 1},
})

// GetContact reads the first row if any. An empty collection is not an
// error; the record may simply not have been created yet.
func (r *MongoRepository) GetContact(ctx context.Context) (ContactInfo, bool, error) {
	var info ContactInfo
	err := r.cols.ContactInfo.FindOne(ctx, bson.M{}).Decode(&info)
	if err == mongo.ErrNoDocuments {
		return ContactInfo{}, false, nil
	}
	if err != nil {
		return ContactInfo{}, false, err
	}
	return info, true, nil
}

func (r *MongoRepository) PutContact(ctx context.Context, info ContactInfo) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.cols.ContactInfo.ReplaceOne(ctx, bson.M{"_id": info.ID}, info, opts)
	return err
}

func listOrdered[T any](ctx context.Context, col *mongo.Collection, query bson.M) ([]T, error) {
	cursor, err := col.Find(ctx, query, orderedSort)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func updateOne[T any](ctx context.Context, col *mongo.Collection, id string, set bson.M) (T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated T
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return updated, err
	}
	return updated, nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, id string) (bool, error) {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func activeQuery(activeOnly bool) bson.M {
	if activeOnly {
		return bson.M{"is_active": true}
	}
	return bson.M{}
}

func (r *MongoRepository) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	return listOrdered[HistoryEntry](ctx, r.cols.History, bson.M{})
}

func (r *MongoRepository) CreateHistory(ctx context.Context, item HistoryEntry) error {
	_, err := r.cols.History.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateHistory(ctx context.Context, id string, set bson.M) (HistoryEntry, error) {
	return updateOne[HistoryEntry](ctx, r.cols.History, id, set)
}

func (r *MongoRepository) DeleteHistory(ctx context.Context, id string) (bool, error) {
	return deleteOne(ctx, r.cols.History, id)
}

func (r *MongoRepository) ListPartners(ctx context.Context, activeOnly bool) ([]TrustedPartner, error) {
	return listOrdered[TrustedPartner](ctx, r.cols.TrustedPartners, activeQuery(activeOnly))
}

func (r *MongoRepository) CreatePartner(ctx context.Context, item TrustedPartner) error {
	_, err := r.cols.TrustedPartners.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdatePartner(ctx context.Context, id string, set bson.M) (TrustedPartner, error) {
	return updateOne[TrustedPartner](ctx, r.cols.TrustedPartners, id, set)
}

func (r *MongoRepository) DeletePartner(ctx context.Context, id string) (bool, error) {
	return deleteOne(ctx, r.cols.TrustedPartners, id)
}

func (r *MongoRepository) ListAboutImages(ctx context.Context, activeOnly bool) ([]AboutImage, error) {
	return listOrdered[AboutImage](ctx, r.cols.AboutImages, activeQuery(activeOnly))
}

func (r *MongoRepository) CreateAboutImage(ctx context.Context, item AboutImage) error {
	_, err := r.cols.AboutImages.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateAboutImage(ctx context.Context, id string, set bson.M) (AboutImage, error) {
	return updateOne[AboutImage](ctx, r.cols.AboutImages, id, set)
}

func (r *MongoRepository) DeleteAboutImage(ctx context.Context, id string) (bool, error) {
	return deleteOne(ctx, r.cols.AboutImages, id)
}

func (r *MongoRepository) ListProfiles(ctx context.Context, activeOnly bool) ([]DownloadProfile, error) {
	return listOrdered[DownloadProfile](ctx, r.cols.DownloadProfiles, activeQuery(activeOnly))
}

func (r *MongoRepository) CreateProfile(ctx context.Context, item DownloadProfile) error {
	_, err := r.cols.DownloadProfiles.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id string, set bson.M) (DownloadProfile, error) {
	return updateOne[DownloadProfile](ctx, r.cols.DownloadProfiles, id, set)
}

func (r *MongoRepository) DeleteProfile(ctx context.Context, id string) (bool, error) {
	return deleteOne(ctx, r.cols.DownloadProfiles, id)
}
