package seeder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/chirp/store"
	"github.com/Luismorlan/chirp/utils"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStatsd keeps every counter increment in memory.
type recordingStatsd struct {
	statsd.NoOpClient

	mu      sync.Mutex
	counts  map[string]int64
	timings []string
}

func newRecordingStatsd() *recordingStatsd {
	return &recordingStatsd{counts: map[string]int64{}}
}

func (r *recordingStatsd) Incr(name string, tags []string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := name
	for _, tag := range tags {
		key += "|" + tag
	}
	r.counts[key]++
	return nil
}

func (r *recordingStatsd) Timing(name string, value time.Duration, tags []string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, name)
	return nil
}

func TestMetricsCountCreatedRows(t *testing.T) {
	client := newRecordingStatsd()
	metrics, err := NewMetrics(client)
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	st := store.NewFakeStore()
	s := NewSeeder(st, smallConfig(), NewLogger(logrus.NewEntry(logger)), metrics)
	require.NoError(t, s.Run(context.Background(), utils.StagingEnv))
	require.NoError(t, metrics.Close())

	assert.Equal(t, int64(5), client.counts[DDOG_SEED_CREATED_COUNTER+"|entity:"+EntityUser])
	assert.Equal(t, int64(20), client.counts[DDOG_SEED_CREATED_COUNTER+"|entity:"+EntityTweet])
	assert.Equal(t, []string{DDOG_SEED_RUN_TIMING}, client.timings)
}

func TestMetricsCountSkippedRows(t *testing.T) {
	client := newRecordingStatsd()
	metrics, err := NewMetrics(client)
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	c := smallConfig()
	s := NewSeeder(store.NewFakeStore(), c, NewLogger(logrus.NewEntry(logger)), metrics)
	users, err := s.CreateStagingUsers(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
	require.NoError(t, metrics.Close())

	created := client.counts[DDOG_SEED_CREATED_COUNTER+"|entity:"+EntityFollow]
	skipped := client.counts[DDOG_SEED_SKIPPED_COUNTER+"|entity:"+EntityFollow]
	assert.Positive(t, created)
	assert.Equal(t, int64(len(s.Store.(*store.FakeStore).Follows())), created)
	assert.GreaterOrEqual(t, created+skipped, int64(2*len(users)))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.Created(EntityUser)
	m.Skipped(EntityLike)
	m.RunDuration("test", time.Second)
	assert.NoError(t, m.Close())
}
