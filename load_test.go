package framesql

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,score,ok,ts,name
1,1.5,true,2024-01-02T03:04:05Z,alice
2,,false,2024-06-07T08:09:10Z,bob
`

func TestFromCSV(t *testing.T) {
	t.Parallel()

	frame, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 2, frame.NumRows())
	require.Equal(t, []string{"id", "score", "ok", "ts", "name"}, frame.ColumnNames())

	id, _ := frame.Column("id")
	assert.Equal(t, KindInt64, id.Kind)
	assert.Equal(t, []any{int64(1), int64(2)}, id.Values)

	score, _ := frame.Column("score")
	assert.Equal(t, KindFloat64, score.Kind)
	assert.Equal(t, []any{1.5, Missing}, score.Values)

	ok, _ := frame.Column("ok")
	assert.Equal(t, KindBool, ok.Kind)
	assert.Equal(t, []any{true, false}, ok.Values)

	ts, _ := frame.Column("ts")
	assert.Equal(t, KindDatetime, ts.Kind)
	first, isTime := ts.Values[0].(time.Time)
	require.True(t, isTime)
	assert.True(t, first.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	name, _ := frame.Column("name")
	assert.Equal(t, KindObject, name.Kind)
	assert.Equal(t, []any{"alice", "bob"}, name.Values)
}

func TestFromCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := FromCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestFromCSV_HeaderOnly(t *testing.T) {
	t.Parallel()

	frame, err := FromCSV(strings.NewReader("id,name\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, frame.NumRows())
	assert.Equal(t, []string{"id", "name"}, frame.ColumnNames())
}

func TestFromCSV_DuplicateHeader(t *testing.T) {
	t.Parallel()

	_, err := FromCSV(strings.NewReader("id,id\n1,2\n"))
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestFromTSV(t *testing.T) {
	t.Parallel()

	frame, err := FromTSV(strings.NewReader("id\tname\n1\talice\n"))
	require.NoError(t, err)

	id, _ := frame.Column("id")
	assert.Equal(t, []any{int64(1)}, id.Values)

	name, _ := frame.Column("name")
	assert.Equal(t, []any{"alice"}, name.Values)
}

func TestFromPath(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, name string, data []byte) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		return path
	}

	t.Run("plain csv", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "data.csv", []byte(sampleCSV))
		frame, err := FromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 2, frame.NumRows())
	})

	t.Run("gzip compressed csv", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write([]byte(sampleCSV))
		require.NoError(t, err)
		require.NoError(t, gz.Close())

		path := writeFile(t, "data.csv.gz", buf.Bytes())
		frame, err := FromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 2, frame.NumRows())
	})

	t.Run("zstd compressed csv", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = enc.Write([]byte(sampleCSV))
		require.NoError(t, err)
		require.NoError(t, enc.Close())

		path := writeFile(t, "data.csv.zst", buf.Bytes())
		frame, err := FromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 2, frame.NumRows())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "data.json", []byte(`{}`))
		_, err := FromPath(path)
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := FromPath(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})
}

func TestTableNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "plain csv",
			path: "/data/events.csv",
			want: "events",
		},
		{
			name: "compressed csv",
			path: "events.csv.gz",
			want: "events",
		},
		{
			name: "zstd parquet",
			path: "/tmp/scores.parquet.zst",
			want: "scores",
		},
		{
			name: "xlsx",
			path: "report.xlsx",
			want: "report",
		},
		{
			name: "dotted base name",
			path: "daily.events.csv",
			want: "daily.events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TableNameFromPath(tt.path))
		})
	}
}

func TestFramesFromPaths(t *testing.T) {
	t.Parallel()

	t.Run("loads every path keyed by table name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		eventsPath := filepath.Join(dir, "events.csv")
		usersPath := filepath.Join(dir, "users.csv")
		require.NoError(t, os.WriteFile(eventsPath, []byte("id\n1\n2\n"), 0o600))
		require.NoError(t, os.WriteFile(usersPath, []byte("name\nalice\n"), 0o600))

		frames, err := FramesFromPaths(context.Background(), eventsPath, usersPath)
		require.NoError(t, err)
		require.Len(t, frames, 2)
		assert.Equal(t, 2, frames["events"].NumRows())
		assert.Equal(t, 1, frames["users"].NumRows())
	})

	t.Run("one failing path fails the load", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		goodPath := filepath.Join(dir, "good.csv")
		require.NoError(t, os.WriteFile(goodPath, []byte("id\n1\n"), 0o600))

		_, err := FramesFromPaths(context.Background(), goodPath, filepath.Join(dir, "absent.csv"))
		assert.Error(t, err)
	})

	t.Run("no paths", func(t *testing.T) {
		t.Parallel()

		frames, err := FramesFromPaths(context.Background())
		require.NoError(t, err)
		assert.Empty(t, frames)
	})
}
