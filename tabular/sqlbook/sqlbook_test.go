package sqlbook

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/tabular"
)

func TestSheet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "Weapon" ORDER BY rowid`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "weight", "note"}).
			AddRow(int64(1), "Sword", 10.5, nil).
			AddRow(int64(2), []byte("Axe"), int64(14), "heavy"))

	rows, err := New(db).Sheet(context.Background(), "Weapon")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Number)
	id, ok := rows[0].Cells[0].Int()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, tabular.KindFloat, rows[0].Cells[2].Kind())
	assert.True(t, rows[0].Cells[3].IsEmpty())

	name, ok := rows[1].Cells[1].Text()
	require.True(t, ok)
	assert.Equal(t, "Axe", name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetQuotesName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "we""ird" ORDER BY rowid`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := New(db).Sheet(context.Background(), `we"ird`)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetErrors(t *testing.T) {
	t.Run("Missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("SQL logic error: no such table: Armor (1)"))

		_, err = New(db).Sheet(context.Background(), "Armor")
		assert.ErrorIs(t, err, tabular.ErrSheetNotFound)
	})

	t.Run("Query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT").WillReturnError(sql.ErrConnDone)

		_, err = New(db).Sheet(context.Background(), "Weapon")
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("Row error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).
			RowError(0, errors.New("corrupt page")))

		_, err = New(db).Sheet(context.Background(), "Weapon")
		assert.ErrorContains(t, err, "corrupt page")
	})
}

func TestCloseBorrowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectClose().WillReturnError(errors.New("must not be called"))

	assert.NoError(t, New(db).Close())
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, tabular.Extensions(), ".db")
	assert.Contains(t, tabular.Extensions(), ".sqlite")

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "data.db"))
	assert.Error(t, err)
}
