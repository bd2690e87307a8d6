package repository

import (
	"context"

	"github.com/SugarStoneMaster/MyMovieList/internal/db"
	"github.com/SugarStoneMaster/MyMovieList/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TroupeRepository struct {
	col *mongo.Collection
}

func NewTroupeRepository() *TroupeRepository {
	return &TroupeRepository{col: db.DB().Collection("troupe")}
}

func (r *TroupeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TroupeDoc, error) {
	var t models.TroupeDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &t, err
}

func (r *TroupeRepository) FindByName(ctx context.Context, fullName string) (*models.TroupeDoc, error) {
	var t models.TroupeDoc
	err := r.col.FindOne(ctx, bson.M{"full_name": fullName}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &t, err
}

// ListByType pages over actors or directors by name.
func (r *TroupeRepository) ListByType(ctx context.Context, troupeType string, offset, limit int64) (Page[models.TroupeDoc], error) {
	filter := bson.M{}
	if troupeType != "" {
		filter["type"] = troupeType
	}
	return paginate[models.TroupeDoc](ctx, r.col,
		filter,
		nil,
		bson.D{{Key: "full_name", Value: 1}},
		offset, limit,
	)
}

// InsertMany loads the ingestion batch.
func (r *TroupeRepository) InsertMany(ctx context.Context, members []models.TroupeDoc) (int, error) {
	docs := make([]any, len(members))
	for i := range members {
		docs[i] = members[i]
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}
