package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicSpecNormalize(t *testing.T) {
	_, err := TopicSpec{Name: "n"}.normalize()
	assert.Error(t, err)

	_, err = TopicSpec{Brokers: []string{"b:9092"}, Name: "  "}.normalize()
	assert.Error(t, err)

	spec, err := TopicSpec{Brokers: []string{"b:9092"}, Name: " supportdesk.notifications "}.normalize()
	require.NoError(t, err)
	assert.Equal(t, "supportdesk.notifications", spec.Name)
	assert.Equal(t, int32(1), spec.Partitions)
	assert.Equal(t, int16(1), spec.Replication)
	assert.Equal(t, 7*24*time.Hour, spec.Retention)
}

func TestTopicSpecDetail(t *testing.T) {
	d := TopicSpec{Partitions: 3, Replication: 2, Retention: 48 * time.Hour}.Detail()

	assert.Equal(t, int32(3), d.NumPartitions)
	assert.Equal(t, int16(2), d.ReplicationFactor)
	require.NotNil(t, d.ConfigEntries["retention.ms"])
	assert.Equal(t, "172800000", *d.ConfigEntries["retention.ms"])
	assert.Equal(t, "delete", *d.ConfigEntries["cleanup.policy"])
}
