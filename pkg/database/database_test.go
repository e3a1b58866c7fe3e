package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type widget struct {
	ID   uint
	Name string
}

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)

	require.NoError(t, MigrateDatabase(db, zap.NewNop(), &widget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	// second run takes the AutoMigrate branch
	require.NoError(t, MigrateDatabase(db, zap.NewNop(), &widget{}))

	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}

func TestPing_Nil(t *testing.T) {
	assert.Error(t, Ping(context.Background(), nil))
}
