package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaiNhanKiet/look-up-convocation2025/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestCreateAuditLogFillsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{
		Action:    models.AuditActionCreate,
		Resource:  models.AuditResourceImageRequest,
		Status:    models.AuditStatusSuccess,
		IPAddress: "127.0.0.1",
	}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, []byte("{}"), entry.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogWrapsErrors(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(assert.AnError)

	err := repo.CreateAuditLog(context.Background(), &models.AuditLog{Action: models.AuditActionView})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_logs").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByResource(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	actor := "staff@example.com"
	resourceID := "SE123456"
	rows := sqlmock.NewRows([]string{"id", "actor_email", "action", "resource", "resource_id", "status", "details", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", actor, models.AuditActionUpdate, models.AuditResourceImageRequest, resourceID, models.AuditStatusSuccess, []byte(`{}`), "10.0.0.1", "curl", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE resource = $1 AND resource_id = $2 ORDER BY created_at DESC LIMIT $3")).
		WithArgs(models.AuditResourceImageRequest, resourceID, 50).
		WillReturnRows(rows)

	logs, err := repo.ListByResource(context.Background(), models.AuditResourceImageRequest, resourceID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, actor, *logs[0].ActorEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}
