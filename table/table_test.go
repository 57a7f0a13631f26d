package table

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/eventide/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvents() []*core.Event {
	begin := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	return []*core.Event{
		{
			UID:             "evt-1",
			CanonicalURL:    "https://example.com/evt-1",
			Title:           "Concert",
			Description:     "Un concert.",
			LongDescription: "Grande salle",
			Keywords:        []string{"musique"},
			FirstBegin:      begin,
			FirstEnd:        begin.Add(2 * time.Hour),
			LastBegin:       begin.AddDate(0, 0, 7),
			LastEnd:         begin.AddDate(0, 0, 7).Add(2 * time.Hour),
			Coordinates:     &core.Coordinates{Lon: -1.67, Lat: 48.11},
		},
		{
			UID:          "evt-2",
			CanonicalURL: "https://example.com/evt-2",
			Title:        "Exposition",
			FirstBegin:   begin,
			FirstEnd:     begin,
			LastBegin:    begin,
			LastEnd:      begin,
		},
	}
}

func TestWriteEventsAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.parquet")

	rows, cols, err := WriteEvents(path, testEvents())
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, len(eventColumns), cols)

	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, eventColumns, tbl.Columns())

	first := tbl.Rows()[0]
	assert.Equal(t, "evt-1", first["uid"])
	assert.Equal(t, "Un concert.", first["description_fr"])
	assert.Equal(t, -1.67, first["location_lon"])

	// Absent optionals survive as nulls, not empty strings.
	second := tbl.Rows()[1]
	assert.Nil(t, second["description_fr"])
	assert.Nil(t, second["location_lon"])
}

func TestWriteEventsEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	rows, _, err := WriteEvents(path, nil)
	require.NoError(t, err)
	assert.Zero(t, rows)

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tbl.IsEmpty())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.parquet"))
	require.Error(t, err)
}

func TestColumnStrings(t *testing.T) {
	tbl := New([]string{"uid", "n"}, []map[string]any{
		{"uid": "a", "n": 1},
		{"uid": "b", "n": nil},
	})

	uids, err := tbl.ColumnStrings("uid")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, uids)

	ns, err := tbl.ColumnStrings("n")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", ""}, ns)

	_, err = tbl.ColumnStrings("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestDrop(t *testing.T) {
	tbl := New([]string{"uid", "title"}, []map[string]any{
		{"uid": "a", "title": "A"},
	})

	reduced := tbl.Drop("uid")
	assert.Equal(t, []string{"title"}, reduced.Columns())
	assert.NotContains(t, reduced.Rows()[0], "uid")

	// The original table is untouched.
	assert.True(t, tbl.HasColumn("uid"))
	assert.Contains(t, tbl.Rows()[0], "uid")
}
