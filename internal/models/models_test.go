package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Text: "a", Completed: true, CreatedAt: "2024-01-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"text":"a","completed":true,"createdAt":"2024-01-01T00:00:00.000Z"}`, string(data))
}

func TestFilter(t *testing.T) {
	open := Task{ID: 1}
	done := Task{ID: 2, Completed: true}

	assert.True(t, FilterAll.Match(open))
	assert.True(t, FilterAll.Match(done))
	assert.True(t, FilterActive.Match(open))
	assert.False(t, FilterActive.Match(done))
	assert.False(t, FilterCompleted.Match(open))
	assert.True(t, FilterCompleted.Match(done))

	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())

	assert.Equal(t, FilterActive, ParseFilter("active"))
	assert.Equal(t, FilterCompleted, ParseFilter("completed"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}

func TestCounts(t *testing.T) {
	pending, completed := Counts([]Task{{}, {Completed: true}, {}, {Completed: true}, {}})
	assert.Equal(t, 3, pending)
	assert.Equal(t, 2, completed)

	pending, completed = Counts(nil)
	assert.Zero(t, pending)
	assert.Zero(t, completed)
}
