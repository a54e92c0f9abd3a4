//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

var (
	mongoOnce      sync.Once
	mongoContainer *mongodb.MongoDBContainer
	mongoURI       string
	mongoErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if mongoContainer != nil {
		_ = testcontainers.TerminateContainer(mongoContainer)
	}
	os.Exit(code)
}

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	mongoOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		mongoContainer, mongoErr = mongodb.Run(ctx, "mongo:7")
		if mongoErr != nil {
			return
		}
		mongoURI, mongoErr = mongoContainer.ConnectionString(ctx)
	})
	if mongoErr != nil {
		t.Fatalf("start mongo container: %v", mongoErr)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI))
	require.NoError(t, err)
	db := client.Database("convocation_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, EnsureIndexes(context.Background(), Collections{
		Bachelors:          db.Collection("bachelors"),
		MissingInformation: db.Collection("missing_information"),
		Users:              db.Collection("users"),
	}))
	return db
}

func seedBachelor(t *testing.T, repo *BachelorRepository, studentID string) {
	t.Helper()
	_, err := repo.UpsertMany(context.Background(), []models.Bachelor{{
		StudentID: studentID,
		FullName:  "Nguyen Van A",
		Email:     "anguyen@example.com",
		Hall:      "A",
		Session:   models.Session{Number: 1, Checkin: "07:00", Presentation: "08:00"},
	}})
	require.NoError(t, err)
}

func pendingEntry() models.CorrectionRequest {
	return models.CorrectionRequest{
		ID:          uuid.NewString(),
		Type:        models.RequestTypeImage,
		NewImageURL: "https://cdn.example.com/new.jpg",
		Status:      models.RequestStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestBachelorRepositoryPushAndResolve(t *testing.T) {
	db := setupMongo(t)
	repo := NewBachelorRepository(db.Collection("bachelors"))
	ctx := context.Background()
	seedBachelor(t, repo, "SE123456")

	ok, err := repo.PushPendingRequest(ctx, "SE123456", pendingEntry())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.PushPendingRequest(ctx, "SE123456", pendingEntry())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ResolvePending(ctx, "SE123456", models.RequestStatusApproved, "staff@example.com", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ResolvePending(ctx, "SE123456", models.RequestStatusRejected, "", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByStudentID(ctx, "SE123456")
	require.NoError(t, err)
	require.Len(t, stored.Requests, 1)
	assert.Equal(t, models.RequestStatusApproved, stored.Requests[0].Status)
	assert.True(t, stored.IsRequested)

	view, err := repo.FindView(ctx, "SE123456")
	require.NoError(t, err)
	assert.Empty(t, view.Requests)
}

func TestBachelorRepositoryConcurrentPushKeepsOnePending(t *testing.T) {
	db := setupMongo(t)
	repo := NewBachelorRepository(db.Collection("bachelors"))
	seedBachelor(t, repo, "SE654321")

	var mu sync.Mutex
	matched := 0
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			ok, err := repo.PushPendingRequest(context.Background(), "SE654321", pendingEntry())
			if ok {
				mu.Lock()
				matched++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, matched)

	rows, total, err := repo.ListRequests(context.Background(), models.BachelorFilter{Status: models.RequestStatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, rows, 1)
}

func TestMissingInformationRepositoryRejectsSecondPending(t *testing.T) {
	db := setupMongo(t)
	repo := NewMissingInformationRepository(db.Collection("missing_information"))
	ctx := context.Background()

	first := &models.MissingInformation{StudentID: "SE123456", Status: models.RequestStatusPending, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, first))
	assert.False(t, first.ID.IsZero())

	second := &models.MissingInformation{StudentID: "SE123456", Status: models.RequestStatusPending, CreatedAt: time.Now().UTC()}
	err := repo.Insert(ctx, second)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	found, err := repo.FindPending(ctx, "SE123456")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindPending(ctx, "SE000000")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
