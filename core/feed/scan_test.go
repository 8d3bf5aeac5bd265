package feed

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedOf(records ...[]byte) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		buf.Write(r)
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

func TestScan(t *testing.T) {
	data := feedOf(
		record{postal: "00100", nameFi: "Mannerheimintie", smallest: "1", highest: "9", municipality: "091"}.bytes(),
		record{postal: "00100", nameFi: "Mannerheimintie", smallest: "2", highest: "8", municipality: "091"}.bytes(),
		record{postal: "00100", nameFi: "Tyhjätie", municipality: "091"}.bytes(),
		record{typ: "PONO", postal: "00100"}.bytes(),
		[]byte("KATU short"),
	)

	var lines []Line
	stats, err := Scan(context.Background(), bytes.NewReader(data), func(l Line) error {
		lines = append(lines, l)
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, ScanStats{Read: 5, Valid: 2, Filtered: 1, Malformed: 1, Irrelevant: 1}, stats)
}

func TestScan_CallbackError(t *testing.T) {
	data := feedOf(
		record{postal: "00100", nameFi: "Tie", smallest: "1", highest: "3", municipality: "091"}.bytes(),
		record{postal: "00100", nameFi: "Tie", smallest: "2", highest: "4", municipality: "091"}.bytes(),
	)
	stop := errors.New("stop")

	stats, err := Scan(context.Background(), bytes.NewReader(data), func(Line) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, stats.Valid)
}

func TestScan_OversizedLineSkipped(t *testing.T) {
	data := feedOf(
		record{postal: "00100", nameFi: "Tie", smallest: "1", highest: "3", municipality: "091"}.bytes(),
		append([]byte(RecordType), bytes.Repeat([]byte("x"), 70*1024)...),
		record{postal: "00100", nameFi: "Tie", smallest: "2", highest: "4", municipality: "091"}.bytes(),
	)

	var lines []Line
	stats, err := Scan(context.Background(), bytes.NewReader(data), func(l Line) error {
		lines = append(lines, l)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[1].End)
	assert.Equal(t, ScanStats{Read: 3, Valid: 2, Malformed: 1}, stats)
}

func TestScan_OversizedLastLine(t *testing.T) {
	data := append(feedOf(
		record{postal: "00100", nameFi: "Tie", smallest: "1", highest: "3", municipality: "091"}.bytes(),
	), bytes.Repeat([]byte("x"), 2*maxLineSize+10)...)

	stats, err := Scan(context.Background(), bytes.NewReader(data), func(Line) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, ScanStats{Read: 2, Valid: 1, Malformed: 1}, stats)
}

func TestScan_NoTrailingNewline(t *testing.T) {
	data := record{postal: "00100", nameFi: "Tie", smallest: "1", highest: "3", municipality: "091"}.bytes()

	stats, err := Scan(context.Background(), bytes.NewReader(data), func(Line) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, ScanStats{Read: 1, Valid: 1}, stats)
}

func TestOpen(t *testing.T) {
	t.Run("NoSource", func(t *testing.T) {
		_, err := Open(context.Background(), Config{}, nil, "")
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("LocalFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.dat")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

		rc, err := Open(context.Background(), Config{Path: path}, nil, "")
		require.NoError(t, err)
		defer rc.Close()

		buf := new(bytes.Buffer)
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		assert.Equal(t, "content", buf.String())
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Path: "/nonexistent/feed.dat"}, nil, "")
		assert.Error(t, err)
	})

	t.Run("ObjectWithoutClient", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Object: "feeds/feed.dat"}, nil, "")
		assert.Error(t, err)
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.org/feed.dat"))
	assert.True(t, IsRemote("http://example.org/feed.dat"))
	assert.False(t, IsRemote("/data/feed.dat"))
}
