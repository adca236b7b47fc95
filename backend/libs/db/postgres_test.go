package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresPoolEmptyDSN(t *testing.T) {
	pool, err := NewPostgresPool(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptyDSN)
	assert.Nil(t, pool)
}

func TestNewPostgresPoolInvalidDSN(t *testing.T) {
	pool, err := NewPostgresPool(context.Background(), "invalid-url")
	require.Error(t, err)
	assert.Nil(t, pool)
}

func TestMockSatisfiesQuerier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var q Querier = mock
	assert.NotNil(t, q)
}
