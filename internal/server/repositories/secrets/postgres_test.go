package secrets

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/promptify/internal/common"
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
	qSetViewer = `(?s)^SELECT\s+set_config\(\$1,\s*\$2,\s*true\)\s*$`
	qGet       = `(?s)^SELECT\s+s\.secret_text\s+FROM\s+prompt_secrets\s+s\s+JOIN\s+grants\s+g\s+ON\s+g\.prompt_id\s*=\s*s\.prompt_id\s+WHERE\s+s\.prompt_id\s*=\s*\$1\s+AND\s+g\.user_id\s*=\s*\$2\s*$`
)

func TestSetViewer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSetViewer).WithArgs(ViewerSetting, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"set_config"}).AddRow("u-1"))
	mock.ExpectQuery(qSetViewer).WithArgs(ViewerSetting, "u-1").
		WillReturnError(errors.New("db down"))

	require.NoError(t, repo.SetViewer(context.Background(), "u-1"))
	assert.ErrorContains(t, repo.SetViewer(context.Background(), "u-1"), "db error")
}

func TestGetForViewer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qGet).WithArgs("p1", "owner").
		WillReturnRows(sqlmock.NewRows([]string{"secret_text"}).AddRow("the prompt"))
	mock.ExpectQuery(qGet).WithArgs("p1", "stranger").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(qGet).WithArgs("p1", "owner").WillReturnError(errors.New("db down"))

	text, err := repo.GetForViewer(context.Background(), "owner", "p1")
	require.NoError(t, err)
	assert.Equal(t, "the prompt", text)

	_, err = repo.GetForViewer(context.Background(), "stranger", "p1")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = repo.GetForViewer(context.Background(), "owner", "p1")
	assert.ErrorContains(t, err, "db error: db down")
	assert.NotErrorIs(t, err, common.ErrForbidden)
}
