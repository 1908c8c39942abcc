package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/persistence/models"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func setupReportDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ReportModel{}))
	return db
}

func newStoredReport(t *testing.T, id string, typ vo.ReportType, ts time.Time) *report.Report {
	t.Helper()
	r, err := report.ReconstructReport(id, typ, "", vo.StatusNew, ts, ts,
		&report.UserSnapshot{ID: "1", Name: "Иван"},
		json.RawMessage(`{"description":"test"}`))
	require.NoError(t, err)
	return r
}

func TestReportRepository_InsertIsIdempotent(t *testing.T) {
	db := setupReportDB(t)
	repo := NewReportRepository(db, logger.NewNopLogger())
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	inserted, err := repo.Insert(ctx, newStoredReport(t, "RPT-1", vo.TypeSecurity, ts))
	require.NoError(t, err)
	assert.True(t, inserted)

	// same id with different content leaves the first row untouched
	dup, err := report.ReconstructReport("RPT-1", vo.TypeGraffiti, "x", vo.StatusResolved, ts, ts, nil, nil)
	require.NoError(t, err)
	inserted, err = repo.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	total, err := repo.Count(ctx, report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	stored, err := repo.GetByID(ctx, "RPT-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, vo.TypeSecurity, stored.Type())
	assert.Equal(t, vo.StatusNew, stored.Status())
	assert.Equal(t, ts, stored.Timestamp())
	assert.Equal(t, "Иван", stored.User().Name)
	assert.JSONEq(t, `{"description":"test"}`, string(stored.Payload()))
}

func TestReportRepository_List(t *testing.T) {
	db := setupReportDB(t)
	repo := NewReportRepository(db, logger.NewNopLogger())
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	fixtures := []struct {
		id  string
		typ vo.ReportType
		at  time.Duration
	}{
		{"a", vo.TypeWifiProblem, 1 * time.Hour},
		{"b", vo.TypeSecurity, 2 * time.Hour},
		{"c", vo.TypeWifiProblem, 3 * time.Hour},
		{"d", vo.TypeGraffiti, 4 * time.Hour},
		{"e", vo.TypeWifiProblem, 5 * time.Hour},
	}
	for _, f := range fixtures {
		_, err := repo.Insert(ctx, newStoredReport(t, f.id, f.typ, base.Add(f.at)))
		require.NoError(t, err)
	}

	t.Run("type filter newest first", func(t *testing.T) {
		typ := vo.TypeWifiProblem
		list, err := repo.List(ctx, report.Filter{Type: &typ, Limit: 200})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"e", "c", "a"}, ids(list))
		for _, r := range list {
			assert.Equal(t, vo.TypeWifiProblem, r.Type())
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		list, err := repo.List(ctx, report.Filter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "c"}, ids(list))
	})

	t.Run("status filter", func(t *testing.T) {
		_, err := repo.SetStatus(ctx, "b", vo.StatusRejected, nil, base.Add(10*time.Hour))
		require.NoError(t, err)

		st := vo.StatusRejected
		list, err := repo.List(ctx, report.Filter{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, ids(list))
	})
}

func TestReportRepository_SetStatus(t *testing.T) {
	db := setupReportDB(t)
	repo := NewReportRepository(db, logger.NewNopLogger())
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.Insert(ctx, newStoredReport(t, "RPT-9", vo.TypeGraffiti, ts))
	require.NoError(t, err)

	t.Run("existing row", func(t *testing.T) {
		later := ts.Add(time.Hour)
		changed, err := repo.SetStatus(ctx, "RPT-9", vo.StatusResolved, nil, later)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		stored, err := repo.GetByID(ctx, "RPT-9")
		require.NoError(t, err)
		assert.Equal(t, vo.StatusResolved, stored.Status())
		assert.Equal(t, later, stored.UpdatedAt())
	})

	t.Run("unknown id creates nothing", func(t *testing.T) {
		changed, err := repo.SetStatus(ctx, "missing", vo.StatusResolved, nil, ts)
		require.NoError(t, err)
		assert.Equal(t, int64(0), changed)

		stored, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("restricted source statuses", func(t *testing.T) {
		changed, err := repo.SetStatus(ctx, "RPT-9", vo.StatusNew,
			vo.WorkflowPolicy{}.AllowedFrom(vo.StatusNew), ts.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), changed)
	})

	t.Run("updated_at never moves backwards", func(t *testing.T) {
		changed, err := repo.SetStatus(ctx, "RPT-9", vo.StatusInProgress, nil, ts.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		stored, err := repo.GetByID(ctx, "RPT-9")
		require.NoError(t, err)
		assert.Equal(t, vo.StatusInProgress, stored.Status())
		assert.Equal(t, ts.Add(time.Hour), stored.UpdatedAt())
	})

	t.Run("updated_at never precedes reported_at", func(t *testing.T) {
		future := ts.Add(48 * time.Hour)
		_, err := repo.Insert(ctx, newStoredReport(t, "RPT-10", vo.TypeGraffiti, future))
		require.NoError(t, err)

		changed, err := repo.SetStatus(ctx, "RPT-10", vo.StatusInProgress, nil, ts)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		stored, err := repo.GetByID(ctx, "RPT-10")
		require.NoError(t, err)
		assert.Equal(t, future, stored.UpdatedAt())
	})
}

func TestReportRepository_StorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	repo := NewReportRepository(db, logger.NewNopLogger())
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `reports`")).
		WillReturnError(errors.New("disk full"))

	_, err = repo.Insert(ctx, newStoredReport(t, "RPT-1", vo.TypeSecurity, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `reports`")).
		WillReturnError(errors.New("lock wait timeout"))

	_, err = repo.SetStatus(ctx, "RPT-1", vo.StatusResolved, nil, time.Now())
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func ids(list []*report.Report) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID())
	}
	return out
}
