package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/sticky/internal/logging"
	"github.com/tgienger/sticky/internal/models"
)

func newTestStore(t *testing.T) (*Store, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	var logs bytes.Buffer
	s := New(NewPaths(filepath.Join(root, "data"), filepath.Join(root, "legacy")), logging.New(&logs, "debug"))
	return s, &logs
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1700000000001, Text: "buy milk #home", Completed: false, CreatedAt: "2023-11-14T22:13:20.001Z"},
		{ID: 1700000000002, Text: "ship release !1 >2023-11-20", Completed: true, CreatedAt: "2023-11-14T22:13:20.002Z"},
		{ID: 1700000000003, Text: "", Completed: false, CreatedAt: "2023-11-14T22:13:20.003Z"},
	}
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/data/sticky", "/home/u/.sticky")
	assert.Equal(t, "/data/sticky", p.Dir)
	assert.Equal(t, filepath.Join("/data/sticky", FileName), p.File)
	assert.Equal(t, filepath.Join("/home/u/.sticky", FileName), p.LegacyFile)

	assert.Empty(t, NewPaths("/data/sticky", "").LegacyFile)
}

func TestInitialize(t *testing.T) {
	t.Run("neither file exists writes empty collection", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Initialize()

		data, err := os.ReadFile(s.Paths().File)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
		assert.Empty(t, s.ReadAll())
	})

	t.Run("legacy file is copied verbatim", func(t *testing.T) {
		s, _ := newTestStore(t)
		legacy := []byte("[\n    {\"id\": 5, \"text\": \"old\", \"completed\": true, \"createdAt\": \"2020-01-01T00:00:00.000Z\"}\n]")
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Paths().LegacyFile), 0o755))
		require.NoError(t, os.WriteFile(s.Paths().LegacyFile, legacy, 0o644))

		s.Initialize()

		data, err := os.ReadFile(s.Paths().File)
		require.NoError(t, err)
		assert.Equal(t, legacy, data)
		assert.Equal(t, []models.Task{{ID: 5, Text: "old", Completed: true, CreatedAt: "2020-01-01T00:00:00.000Z"}}, s.ReadAll())
	})

	t.Run("existing canonical file is left alone", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, os.MkdirAll(s.Paths().Dir, 0o755))
		current := []byte(`[{"id":1,"text":"keep","completed":false,"createdAt":"x"}]`)
		require.NoError(t, os.WriteFile(s.Paths().File, current, 0o644))
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Paths().LegacyFile), 0o755))
		require.NoError(t, os.WriteFile(s.Paths().LegacyFile, []byte(`[]`), 0o644))

		s.Initialize()
		s.Initialize()

		data, err := os.ReadFile(s.Paths().File)
		require.NoError(t, err)
		assert.Equal(t, current, data)
	})

	t.Run("idempotent after first run", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Initialize()
		s.WriteAll(sampleTasks())
		s.Initialize()

		assert.Equal(t, sampleTasks(), s.ReadAll())
	})

	t.Run("no legacy location configured", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		s := New(NewPaths(dir, ""), nil)
		s.Initialize()
		assert.Empty(t, s.ReadAll())
	})

	t.Run("unusable data dir is logged and swallowed", func(t *testing.T) {
		root := t.TempDir()
		blocker := filepath.Join(root, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		var logs bytes.Buffer
		s := New(NewPaths(filepath.Join(blocker, "data"), ""), logging.New(&logs, "info"))
		s.Initialize()

		assert.Contains(t, logs.String(), "create data dir")
		assert.Empty(t, s.ReadAll())
	})
}

func TestRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	s.Initialize()

	s.WriteAll(sampleTasks())
	assert.Equal(t, sampleTasks(), s.ReadAll())

	s.WriteAll([]models.Task{})
	assert.Equal(t, []models.Task{}, s.ReadAll())

	s.WriteAll(nil)
	assert.Equal(t, []models.Task{}, s.ReadAll())
}

func TestWriteAllFormat(t *testing.T) {
	s, _ := newTestStore(t)
	s.Initialize()
	s.WriteAll(sampleTasks()[:1])

	data, err := os.ReadFile(s.Paths().File)
	require.NoError(t, err)
	want := "[\n" +
		"  {\n" +
		"    \"id\": 1700000000001,\n" +
		"    \"text\": \"buy milk #home\",\n" +
		"    \"completed\": false,\n" +
		"    \"createdAt\": \"2023-11-14T22:13:20.001Z\"\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, string(data))
}

func TestReadAllFailsSoft(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `[{"id": 1, "text": "a"`},
		{"not json", "hello"},
		{"object instead of array", `{"id": 1}`},
		{"null document", "null"},
		{"missing field", `[{"id": 1, "text": "a", "completed": false}]`},
		{"wrong type", `[{"id": "1", "text": "a", "completed": false, "createdAt": "x"}]`},
		{"fractional id", `[{"id": 1.5, "text": "a", "completed": false, "createdAt": "x"}]`},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, logs := newTestStore(t)
			s.Initialize()
			require.NoError(t, os.WriteFile(s.Paths().File, []byte(tt.body), 0o644))

			got := s.ReadAll()
			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.Contains(t, logs.String(), "decode task file")
		})
	}

	t.Run("missing file", func(t *testing.T) {
		s, logs := newTestStore(t)
		got := s.ReadAll()
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Contains(t, logs.String(), "read task file")
	})
}

func TestWriteAllFailsSoft(t *testing.T) {
	s, logs := newTestStore(t)
	// Data dir never created.
	s.WriteAll(sampleTasks())

	assert.Contains(t, logs.String(), "write task file")
	assert.Empty(t, s.ReadAll())
}

func TestDecodeAllowsExtraFields(t *testing.T) {
	tasks, err := Decode([]byte(`[{"id": 7, "text": "t", "completed": false, "createdAt": "c", "pinned": true}]`))
	require.NoError(t, err)
	assert.Equal(t, []models.Task{{ID: 7, Text: "t", CreatedAt: "c"}}, tasks)
}
