package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS orders")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS cms_documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	db := &DB{sqlDB}
	require.NoError(t, db.SetupSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupSchema_StopsOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS orders")).
		WillReturnError(errors.New("access denied"))

	db := &DB{sqlDB}
	err = db.SetupSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropSchema(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS orders")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS cms_documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	db := &DB{sqlDB}
	require.NoError(t, db.DropSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
