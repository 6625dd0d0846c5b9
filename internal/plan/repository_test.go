package plan

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var planRowColumns = []string{
	"id", "name", "description", "price", "duration_days", "features", "is_active",
	"created_at", "updated_at",
}

func planRow(id int, name, price string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(planRowColumns).AddRow(
		id, name, nil, price, 30, []byte(`[]`), true, now, now,
	)
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	price := decimal.RequireFromString("49.90")
	features := types.JSONText(`["chat support"]`)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO plans")).
		WithArgs("Monthly", nil, price, 30, []byte(`["chat support"]`), true).
		WillReturnRows(planRow(3, "Monthly", "49.90"))

	created, err := repo.Create(context.Background(), &Plan{
		Name: "Monthly", Price: price, DurationDays: 30, Features: features, IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.True(t, created.Price.Equal(price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM plans").
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	active := true
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM plans")).
		WithArgs(true, "%month%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM plans (.+) ORDER BY price ASC").
		WithArgs(true, "%month%", 10, 0).
		WillReturnRows(planRow(1, "Monthly", "49.90"))

	plans, total, err := repo.List(context.Background(), ListFilter{
		IsActive: &active, Search: "month", Page: 1, Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, plans, 1)
	assert.Equal(t, "Monthly", plans[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plans WHERE id = $1")).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
