package history

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(target string, when time.Time) Record {
	return Record{
		Time:     when,
		Org:      "acme",
		Target:   target,
		Env:      "prod",
		Pipeline: "default",
		Action:   "build:all push",
		Status:   StatusOK,
		Duration: 3200 * time.Millisecond,
	}
}

func TestLogRoundTrip(t *testing.T) {
	log := NewLogAt(t.TempDir())
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(sampleRecord("site", base)))
	require.NoError(t, log.Append(sampleRecord("api", base.Add(time.Hour))))

	records, err := log.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "site", records[0].Target)
	assert.Equal(t, "api", records[1].Target)
	assert.Equal(t, StatusOK, records[0].Status)
	assert.Equal(t, 3200*time.Millisecond, records[0].Duration)
}

func TestLogMissingFile(t *testing.T) {
	records, err := NewLogAt(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLogSkipsCorruptRecord(t *testing.T) {
	log := NewLogAt(t.TempDir())
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(sampleRecord("site", base)))

	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("---\n{broken yaml: [\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.Append(sampleRecord("api", base.Add(time.Hour))))

	records, err := log.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "site", records[0].Target)
	assert.Equal(t, "api", records[1].Target)
}

func TestLogTail(t *testing.T) {
	log := NewLogAt(t.TempDir())
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	for i, target := range []string{"one", "two", "three"} {
		require.NoError(t, log.Append(sampleRecord(target, base.Add(time.Duration(i)*time.Hour))))
	}

	records, err := log.Tail(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, "three", records[0].Target)
	assert.Equal(t, "two", records[1].Target)

	all, err := log.Tail(50)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFormatRecord(t *testing.T) {
	rec := sampleRecord("site", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	line := FormatRecord(rec)
	assert.Contains(t, line, "2024-03-15 10:00:00")
	assert.Contains(t, line, "site")
	assert.Contains(t, line, "prod")
	assert.Contains(t, line, "default")
	assert.Contains(t, line, "3.2s")
}

func TestFormatRecordFailed(t *testing.T) {
	rec := sampleRecord("site", time.Now())
	rec.Status = StatusFailed

	assert.Contains(t, FormatRecord(rec), "✗")
}
