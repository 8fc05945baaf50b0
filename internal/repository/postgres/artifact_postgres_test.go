package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"weatherops/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var artifactColumns = []string{"id", "plan_id", "kind", "storage_path", "size", "content_type", "created_at"}

func testArtifact(now time.Time) *model.Artifact {
	return &model.Artifact{
		ID:          "artifact-uuid",
		PlanID:      "plan-uuid",
		Kind:        model.ArtifactGantt,
		StoragePath: "plans/plan-uuid/artifact-uuid.html",
		Size:        2048,
		ContentType: "text/html",
		CreatedAt:   now,
	}
}

func TestArtifactPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewArtifactPostgres(db)
	now := time.Now().UTC()
	a := testArtifact(now)

	rows := sqlmock.NewRows(artifactColumns).
		AddRow(a.ID, a.PlanID, string(a.Kind), a.StoragePath, a.Size, a.ContentType, a.CreatedAt)
	mock.ExpectQuery("INSERT INTO artifacts").
		WithArgs(a.ID, a.PlanID, "gantt", a.StoragePath, a.Size, a.ContentType, a.CreatedAt).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), a)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.ArtifactGantt, got.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewArtifactPostgres(db)
	now := time.Now().UTC()
	a := testArtifact(now)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(artifactColumns).
			AddRow(a.ID, a.PlanID, string(a.Kind), a.StoragePath, a.Size, a.ContentType, a.CreatedAt)
		mock.ExpectQuery("SELECT (.+) FROM artifacts").WithArgs(a.ID).WillReturnRows(rows)

		got, err := repo.FindByID(context.Background(), a.ID)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, a.StoragePath, got.StoragePath)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM artifacts").WithArgs("missing").WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactPostgres_ByPlan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewArtifactPostgres(db)
	now := time.Now().UTC()
	a := testArtifact(now)

	rows := sqlmock.NewRows(artifactColumns).
		AddRow(a.ID, a.PlanID, "gantt", a.StoragePath, a.Size, a.ContentType, now).
		AddRow("artifact-2", a.PlanID, "csv", "plans/plan-uuid/artifact-2.csv", 512, "text/csv", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM artifacts").WithArgs(a.PlanID).WillReturnRows(rows)

	got, err := repo.ByPlan(context.Background(), a.PlanID)
	assert.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ArtifactGantt, got[0].Kind)
	assert.Equal(t, model.ArtifactCSV, got[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
