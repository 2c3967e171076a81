package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgrid/dctm-connector/pkg/sink"
)

func TestNew_RequiresBrokers(t *testing.T) {
	s, err := New(Config{Topic: "dctm.document-ids"}, nil)
	assert.Nil(t, s)
	assert.EqualError(t, err, "at least one broker is required")
}

func TestNew_RequiresTopic(t *testing.T) {
	s, err := New(Config{Brokers: []string{"localhost:19092"}}, nil)
	assert.Nil(t, s)
	assert.EqualError(t, err, "topic is required")
}

func TestBuildRecords_OneRecordPerIdentifier(t *testing.T) {
	// Client creation does not dial; no broker is needed here.
	s, err := New(Config{
		Brokers: []string{"localhost:19092"},
		Topic:   "dctm.document-ids",
	}, nil)
	require.NoError(t, err)
	defer s.Close()

	// Duplicates are kept; the batch is a 1:1 rendering of the identifiers.
	ids := []sink.DocID{"/a", "/b", "/a"}
	now := time.Now().UTC()

	records, err := s.buildRecords(ids, "cycle-1", now)
	require.NoError(t, err)
	require.Len(t, records, len(ids))

	for i, rec := range records {
		assert.Equal(t, "dctm.document-ids", rec.Topic)
		assert.Equal(t, []byte(ids[i]), rec.Key)

		var event identifierEvent
		require.NoError(t, json.Unmarshal(rec.Value, &event))
		assert.Equal(t, ids[i].String(), event.ID)
		assert.Equal(t, "cycle-1", event.CycleID)
		assert.True(t, event.Timestamp.Equal(now))
	}
}

func TestBuildRecords_CycleIDSharedAcrossBatch(t *testing.T) {
	s, err := New(Config{
		Brokers: []string{"localhost:19092"},
		Topic:   "dctm.document-ids",
	}, nil)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.buildRecords([]sink.DocID{"/x", "/y"}, "cycle-2", time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, records, 2)

	var first, second identifierEvent
	require.NoError(t, json.Unmarshal(records[0].Value, &first))
	require.NoError(t, json.Unmarshal(records[1].Value, &second))
	assert.Equal(t, first.CycleID, second.CycleID)
}
