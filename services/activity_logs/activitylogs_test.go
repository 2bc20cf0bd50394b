package activitylogs

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInet(t *testing.T) {
	v4 := toInet("192.168.1.10")
	require.True(t, v4.Valid)
	assert.Equal(t, "192.168.1.10/32", v4.IPNet.String())

	v6 := toInet("2001:db8::1")
	require.True(t, v6.Valid)
	assert.Equal(t, "2001:db8::1/128", v6.IPNet.String())

	cidr := toInet("10.0.0.0/8")
	require.True(t, cidr.Valid)
	assert.Equal(t, "10.0.0.0/8", cidr.IPNet.String())

	assert.False(t, toInet("").Valid)
	assert.False(t, toInet("not-an-ip").Valid)
}

func TestCreateActivityLog(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	log := NewActivityLog(db.NewStore(sqlDB))
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "path", "status_code", "ip_address", "user_agent", "created_at"}).
		AddRow(1, userID.String(), "payment:deposit", "/api/v1/payments", 200, nil, "Mozilla/5.0", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO activity_logs")).
		WithArgs(userID, "payment:deposit", "/api/v1/payments", int64(200), sqlmock.AnyArg(), "Mozilla/5.0").
		WillReturnRows(rows)

	created, err := log.Create(context.Background(), CreateActivityLogParams{
		UserID:     &userID,
		Action:     "payment:deposit",
		Path:       "/api/v1/payments",
		StatusCode: 200,
		IPAddress:  "127.0.0.1",
		UserAgent:  "Mozilla/5.0",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, userID, created.UserID.UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupDeletesOldEntries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cleanup := NewCleanupService(NewActivityLog(db.NewStore(sqlDB)), logging.NewDiscardLogger(), 0)
	cleanup.now = func() time.Time { return now }

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM activity_logs")).
		WithArgs(now.Add(-DefaultRetention)).
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, cleanup.Cleanup(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
