package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

// ErrDuplicateKey is returned when a unique index rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

// MissingInformationRepository stores missing-information filings.
type MissingInformationRepository struct {
	coll *mongo.Collection
}

// NewMissingInformationRepository constructs the repository.
func NewMissingInformationRepository(coll *mongo.Collection) *MissingInformationRepository {
	return &MissingInformationRepository{coll: coll}
}

// FindPending returns the pending filing for the student, if any.
func (r *MissingInformationRepository) FindPending(ctx context.Context, studentID string) (*models.MissingInformation, error) {
	var info models.MissingInformation
	filter := bson.M{"studentId": studentID, "status": models.RequestStatusPending}
	if err := r.coll.FindOne(ctx, filter).Decode(&info); err != nil {
		return nil, fmt.Errorf("find pending missing information %s: %w", studentID, err)
	}
	return &info, nil
}

// Insert stores a filing. A racing pending filing for the same student is
// rejected by the partial unique index and reported as ErrDuplicateKey.
func (r *MissingInformationRepository) Insert(ctx context.Context, info *models.MissingInformation) error {
	res, err := r.coll.InsertOne(ctx, info)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert missing information %s: %w", info.StudentID, ErrDuplicateKey)
		}
		return fmt.Errorf("insert missing information %s: %w", info.StudentID, err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		info.ID = id
	}
	return nil
}
