package logging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_ChildLoggersShareEntries(t *testing.T) {
	root := NewMockLogger()
	child := root.WithField(FieldField, "totalRevenue")
	child.WithError(errors.New("missing")).Debug("field not found")

	entries := root.GetEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0].Level)
	assert.Equal(t, []Field{{Key: FieldField, Value: "totalRevenue"}}, entries[0].Fields)
	assert.EqualError(t, entries[0].Error, "missing")
}

func TestMockLogger_Queries(t *testing.T) {
	m := NewMockLogger()
	m.Info("one")
	m.Warn("two")
	m.Info("three")

	assert.Len(t, m.GetEntriesByLevel("INFO"), 2)
	assert.True(t, m.HasEntry("WARN", "two"))
	assert.False(t, m.HasEntry("ERROR", "two"))

	m.Clear()
	assert.Empty(t, m.GetEntries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var m MockLogger
	m.Fatalf("code %d", 7)
	assert.True(t, m.HasEntry("FATAL", "code 7"))
}

func TestMockLogger_ConcurrentWrites(t *testing.T) {
	m := NewMockLogger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.WithField(FieldCount, 1).Info("tick")
		}()
	}
	wg.Wait()
	assert.Len(t, m.GetEntries(), 50)
}
