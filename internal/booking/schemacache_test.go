package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/TourHive/booking-flow-backend/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource records upstream fetches.
type countingSource struct {
	schema *types.FieldSchema
	err    error
	calls  int
}

func (s *countingSource) QueryBookingField(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error) {
	s.calls++
	return s.schema, s.err
}

func TestSchemaCacheMissFetchesAndStores(t *testing.T) {
	schema := loadSampleSchema(t)
	source := &countingSource{schema: schema}
	rdb, mock := redismock.NewClientMock()

	encoded, err := json.Marshal(schema)
	require.NoError(t, err)

	key := schemaCacheKey("P1", "K1", "I1")
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, encoded, 10*time.Minute).SetVal("OK")

	cache := NewSchemaCache(source, rdb, 10*time.Minute)
	got, err := cache.Get(context.Background(), "P1", "K1", "I1")
	require.NoError(t, err)
	assert.Len(t, got.Traffics, 3)
	assert.Equal(t, 1, source.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaCacheHitSkipsUpstream(t *testing.T) {
	schema := loadSampleSchema(t)
	source := &countingSource{schema: schema}
	rdb, mock := redismock.NewClientMock()

	encoded, err := json.Marshal(schema)
	require.NoError(t, err)
	mock.ExpectGet(schemaCacheKey("P1", "K1", "I1")).SetVal(string(encoded))

	cache := NewSchemaCache(source, rdb, 10*time.Minute)
	got, err := cache.Get(context.Background(), "P1", "K1", "I1")
	require.NoError(t, err)
	assert.True(t, got.Custom["nationality"].Require)
	assert.Equal(t, 0, source.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaCacheCorruptEntryRefetches(t *testing.T) {
	schema := loadSampleSchema(t)
	source := &countingSource{schema: schema}
	rdb, mock := redismock.NewClientMock()

	key := schemaCacheKey("P1", "K1", "I1")
	mock.ExpectGet(key).SetVal("{not json")
	mock.ExpectDel(key).SetVal(1)
	mock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetVal("OK")

	cache := NewSchemaCache(source, rdb, 10*time.Minute)
	got, err := cache.Get(context.Background(), "P1", "K1", "I1")
	require.NoError(t, err)
	assert.Len(t, got.Traffics, 3)
	assert.Equal(t, 1, source.calls)
}

func TestSchemaCacheRedisErrorDegradesToDirectFetch(t *testing.T) {
	schema := loadSampleSchema(t)
	source := &countingSource{schema: schema}
	rdb, mock := redismock.NewClientMock()

	key := schemaCacheKey("P1", "K1", "I1")
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, 10*time.Minute).SetErr(errors.New("connection refused"))

	cache := NewSchemaCache(source, rdb, 10*time.Minute)
	got, err := cache.Get(context.Background(), "P1", "K1", "I1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 1, source.calls)
}

func TestSchemaCacheNilRedisGoesUpstream(t *testing.T) {
	source := &countingSource{schema: loadSampleSchema(t)}
	cache := NewSchemaCache(source, nil, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cache.Get(context.Background(), "P1", "K1", "I1")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, source.calls)
}

func TestSchemaCacheUpstreamErrorPropagates(t *testing.T) {
	source := &countingSource{err: errors.New("catalog API returned status: 500")}
	cache := NewSchemaCache(source, nil, time.Minute)

	_, err := cache.Get(context.Background(), "P1", "K1", "I1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
