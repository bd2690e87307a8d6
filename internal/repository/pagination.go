package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadQuery marks query construction failures (unknown sort or
// projection field). Callers treat it as a client error, not an empty
// result set.
var ErrBadQuery = errors.New("bad query")

// Page bundles one page of results with the total number of documents
// matching the filter. Total is computed against the filter, not capped
// by the limit, so callers can derive a page count.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// MutationResult distinguishes "document changed" from "matched
// nothing". A write that matches a parent document but misses the
// targeted sub-entry reports Matched without Modified.
type MutationResult struct {
	Matched  bool `json:"matched"`
	Modified bool `json:"modified"`
}

func mutationResult(res *mongo.UpdateResult) MutationResult {
	return MutationResult{
		Matched:  res.MatchedCount > 0,
		Modified: res.ModifiedCount > 0,
	}
}

// paginate runs a skip/limit query plus a filtered count. An offset
// past the last match yields an empty page with a correct total; a bad
// filter or sort surfaces the driver error to the caller.
func paginate[T any](
	ctx context.Context,
	col *mongo.Collection,
	filter bson.M,
	projection bson.M,
	sort bson.D,
	offset, limit int64,
) (Page[T], error) {
	var page Page[T]

	opts := options.Find().SetSkip(offset).SetLimit(limit)
	if projection != nil {
		opts.SetProjection(projection)
	}
	if sort != nil {
		opts.SetSort(sort)
	}

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return page, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return page, err
		}
		page.Items = append(page.Items, item)
	}
	if err := cur.Err(); err != nil {
		return page, err
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return page, err
	}
	page.Total = total
	return page, nil
}
