package grants

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

const (
	qExists = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+grants\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+prompt_id\s*=\s*\$2\)\s*$`
	qInsert = `(?s)^INSERT\s+INTO\s+grants\s*\(user_id,\s*prompt_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(user_id,\s*prompt_id\)\s*DO\s+NOTHING\s*$`
	qList   = `(?s)^SELECT\s+prompt_id\s+FROM\s+grants\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s*$`
)

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qExists).WithArgs("u", "p").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(qExists).WithArgs("u", "p").WillReturnError(errors.New("db down"))

	ok, err := repo.Exists(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Exists(context.Background(), "u", "p")
	assert.ErrorContains(t, err, "db error: db down")
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(qInsert).WithArgs("u", "p").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate is a conflict",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(qInsert).WithArgs("u", "p").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: common.ErrConflict,
		},
		{
			name: "unique violation is a conflict",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(qInsert).WithArgs("u", "p").WillReturnError(&pgconn.PgError{Code: dbx.CodeUniqueViolation})
			},
			wantErr: common.ErrConflict,
		},
		{
			name: "missing prompt",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(qInsert).WithArgs("u", "p").WillReturnError(&pgconn.PgError{Code: dbx.CodeForeignKeyViolation})
			},
			wantErr: common.ErrorNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			err := repo.Insert(context.Background(), "u", "p")
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListPromptIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qList).WithArgs("u").
		WillReturnRows(sqlmock.NewRows([]string{"prompt_id"}).AddRow("p1").AddRow("p2"))
	mock.ExpectQuery(qList).WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"prompt_id"}))

	ids, err := repo.ListPromptIDs(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	ids, err = repo.ListPromptIDs(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)
}
