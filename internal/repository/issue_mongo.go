package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/first-pr/server/internal/models"
)

// IssueMongo persists ingested issues in a single collection.
//
// Expected schema:
//
//	issues
//	  { _id: ObjectId, external_id: int64 (unique), repository, title,
//	    body, url, labels: []string }
//
// The unique index on external_id is the sole dedup guard: the same issue
// seen twice (including under concurrent scanner runs) is stored once,
// keeping the first write.
type IssueMongo struct {
	col *mongo.Collection
}

// NewIssueRepository wires the collection and ensures the unique index.
// An index failure is a constructor error so a store without its dedup
// guarantee never serves traffic.
func NewIssueRepository(db *mongo.Database) (*IssueMongo, error) {
	col := db.Collection("issues")

	ctx := context.Background()
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("external_id_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure external_id index: %w", err)
	}

	return &IssueMongo{col: col}, nil
}

// UpsertIfAbsent inserts rec unless its external_id is already stored.
// It reports whether an insert happened. A duplicate key is the expected
// no-op path, not an error; anything else (constraint violation,
// connection failure) is returned wrapped.
func (r *IssueMongo) UpsertIfAbsent(ctx context.Context, rec models.IssueRecord) (bool, error) {
	_, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert issue %d: %w", rec.ExternalID, err)
	}
	return true, nil
}

// ListAll returns every stored issue in unspecified order. Callers re-sort
// by match score, so no ordering is promised here.
func (r *IssueMongo) ListAll(ctx context.Context) ([]models.IssueRecord, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cur.Close(ctx)

	var issues []models.IssueRecord
	if err := cur.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}
