package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

// Collections groups the collections that carry indexes.
type Collections struct {
	Bachelors          *mongo.Collection
	MissingInformation *mongo.Collection
	Users              *mongo.Collection
}

// EnsureIndexes creates the indexes the workflow invariants rely on. It is
// idempotent and safe to run on every start.
func EnsureIndexes(ctx context.Context, colls Collections) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{colls.Bachelors, bachelorIndexes()},
		{colls.MissingInformation, missingInformationIndexes()},
		{colls.Users, userIndexes()},
	}
	for _, spec := range specs {
		if spec.coll == nil {
			continue
		}
		if _, err := spec.coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.coll.Name(), err)
		}
	}
	return nil
}

func bachelorIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index().SetName("uniq_student_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "requests.status", Value: 1}},
			Options: options.Index().SetName("idx_requests_status"),
		},
	}
}

// At most one pending filing per student.
func missingInformationIndexes() []mongo.IndexModel {
	pending := options.Index().
		SetName("uniq_pending_student_id").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"status": models.RequestStatusPending})
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: pending},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	}
}
