package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

// BachelorRepository handles persistence for bachelor records and their
// embedded correction requests.
type BachelorRepository struct {
	coll *mongo.Collection
}

// NewBachelorRepository constructs the repository.
func NewBachelorRepository(coll *mongo.Collection) *BachelorRepository {
	return &BachelorRepository{coll: coll}
}

// FindByStudentID returns the full record including requests.
func (r *BachelorRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Bachelor, error) {
	var bachelor models.Bachelor
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&bachelor); err != nil {
		return nil, fmt.Errorf("find bachelor %s: %w", studentID, err)
	}
	return &bachelor, nil
}

// FindView returns the record without the embedded requests.
func (r *BachelorRepository) FindView(ctx context.Context, studentID string) (*models.Bachelor, error) {
	opts := options.FindOne().SetProjection(bson.M{"requests": 0})
	var bachelor models.Bachelor
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}, opts).Decode(&bachelor); err != nil {
		return nil, fmt.Errorf("find bachelor view %s: %w", studentID, err)
	}
	return &bachelor, nil
}

// Exists reports whether a record with the student ID is stored.
func (r *BachelorRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"studentId": studentID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count bachelor %s: %w", studentID, err)
	}
	return count > 0, nil
}

// PushPendingRequest appends entry only when the record has no pending
// request. It returns false when nothing matched.
func (r *BachelorRepository) PushPendingRequest(ctx context.Context, studentID string, entry models.CorrectionRequest) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, pushPendingFilter(studentID), pushPendingUpdate(entry))
	if err != nil {
		return false, fmt.Errorf("push request for %s: %w", studentID, err)
	}
	return res.MatchedCount > 0, nil
}

// ResolvePending moves the first pending request to status. It returns false
// when there is no such record or no pending request.
func (r *BachelorRepository) ResolvePending(ctx context.Context, studentID string, status models.RequestStatus, resolvedBy string, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, resolvePendingFilter(studentID), resolvePendingUpdate(status, resolvedBy, at))
	if err != nil {
		return false, fmt.Errorf("resolve request for %s: %w", studentID, err)
	}
	return res.MatchedCount > 0, nil
}

// ListRequests returns requests in the given status, oldest first, and the total count.
func (r *BachelorRepository) ListRequests(ctx context.Context, filter models.BachelorFilter) ([]models.BachelorRequestRow, int, error) {
	cursor, err := r.coll.Aggregate(ctx, listRequestsPipeline(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate requests: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []struct {
		Items []models.BachelorRequestRow `bson:"items"`
		Total []struct {
			Count int `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, 0, fmt.Errorf("decode requests: %w", err)
	}
	if len(pages) == 0 {
		return []models.BachelorRequestRow{}, 0, nil
	}

	total := 0
	if len(pages[0].Total) > 0 {
		total = pages[0].Total[0].Count
	}
	items := pages[0].Items
	if items == nil {
		items = []models.BachelorRequestRow{}
	}
	return items, total, nil
}

// UpsertResult summarises a bulk import.
type UpsertResult struct {
	Inserted int64
	Updated  int64
}

// UpsertMany imports records keyed by student ID. Existing requests are left untouched.
func (r *BachelorRepository) UpsertMany(ctx context.Context, bachelors []models.Bachelor) (UpsertResult, error) {
	if len(bachelors) == 0 {
		return UpsertResult{}, nil
	}
	writes := make([]mongo.WriteModel, 0, len(bachelors))
	for i := range bachelors {
		if bachelors[i].StudentID == "" {
			return UpsertResult{}, errors.New("bachelor without studentId")
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"studentId": bachelors[i].StudentID}).
			SetUpdate(importUpdate(bachelors[i])).
			SetUpsert(true))
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return UpsertResult{}, fmt.Errorf("bulk upsert bachelors: %w", err)
	}
	return UpsertResult{Inserted: res.UpsertedCount, Updated: res.ModifiedCount}, nil
}

func pushPendingFilter(studentID string) bson.M {
	return bson.M{
		"studentId":       studentID,
		"requests.status": bson.M{"$ne": models.RequestStatusPending},
	}
}

func pushPendingUpdate(entry models.CorrectionRequest) bson.M {
	return bson.M{
		"$push": bson.M{"requests": entry},
		"$set":  bson.M{"isRequested": true},
	}
}

func resolvePendingFilter(studentID string) bson.M {
	return bson.M{
		"studentId":       studentID,
		"requests.status": models.RequestStatusPending,
	}
}

func resolvePendingUpdate(status models.RequestStatus, resolvedBy string, at time.Time) bson.M {
	set := bson.M{
		"requests.$.status":     status,
		"requests.$.resolvedAt": at,
	}
	if resolvedBy != "" {
		set["requests.$.resolvedBy"] = resolvedBy
	}
	return bson.M{"$set": set}
}

func listRequestsPipeline(filter models.BachelorFilter) mongo.Pipeline {
	status := filter.Status
	if status == "" {
		status = models.RequestStatusPending
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"requests.status": status}}},
		{{Key: "$unwind", Value: "$requests"}},
		{{Key: "$match", Value: bson.M{"requests.status": status}}},
		{{Key: "$project", Value: bson.M{"studentId": 1, "fullName": 1, "faculty": 1, "hall": 1, "requests": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "requests.createdAt", Value: 1}, {Key: "studentId", Value: 1}}}},
		{{Key: "$facet", Value: bson.M{
			"items": bson.A{
				bson.M{"$skip": offset},
				bson.M{"$limit": limit},
			},
			"total": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}
}

func importUpdate(b models.Bachelor) bson.M {
	return bson.M{
		"$set": bson.M{
			"fullName":   b.FullName,
			"email":      b.Email,
			"major":      b.Major,
			"faculty":    b.Faculty,
			"date":       b.Date,
			"hall":       b.Hall,
			"session":    b.Session,
			"seat":       b.Seat,
			"parentSeat": b.ParentSeat,
			"images":     b.Images,
		},
	}
}
