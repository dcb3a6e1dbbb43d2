package source_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/collector/internal/source"
	"github.com/loghound-systems/loghound-stack/common/bgl"
	"github.com/loghound-systems/loghound-stack/common/paging"
)

func writeDataset(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bgl.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func sampleLines(n int) []string {
	base := []string{
		"- 1117838570 2005.06.03 R02-M1-N0-C:J12-U11 RAS KERNEL INFO instruction cache parity error corrected",
		"KERNDTLB 1117838573 2005.06.03 R02-M1-N0-C:J12-U11 RAS KERNEL FATAL data TLB error interrupt",
		"- 1117838976 2005.06.03 R02-M1-N0-C:J12-U11 RAS KERNEL INFO generating core files",
	}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = base[i%len(base)]
	}
	return lines
}

func TestReadBatch_FirstWindow(t *testing.T) {
	r := source.NewReader(writeDataset(t, sampleLines(10)))

	records, err := r.ReadBatch(context.Background(), paging.Params{Offset: 0, Limit: 4})
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, 0, records[0].LineID)
	assert.False(t, records[0].IsAlert)
	assert.Equal(t, bgl.NonAlertTag, records[0].AlertTag)

	assert.Equal(t, 1, records[1].LineID)
	assert.True(t, records[1].IsAlert)
	assert.Equal(t, "KERNDTLB", records[1].AlertTag)
}

func TestReadBatch_SuccessivePagesCoverFileExactlyOnce(t *testing.T) {
	lines := sampleLines(23)
	r := source.NewReader(writeDataset(t, lines))

	var all []bgl.LogRecord
	for offset := 0; ; offset += 7 {
		records, err := r.ReadBatch(context.Background(), paging.Params{Offset: offset, Limit: 7})
		require.NoError(t, err)
		if len(records) == 0 {
			break
		}
		all = append(all, records...)
	}

	require.Len(t, all, len(lines))
	for i, rec := range all {
		assert.Equal(t, i, rec.LineID)
		assert.Equal(t, lines[i], rec.Raw)
	}
}

func TestReadBatch_PastEndOfFile(t *testing.T) {
	r := source.NewReader(writeDataset(t, sampleLines(3)))

	records, err := r.ReadBatch(context.Background(), paging.Params{Offset: 100, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadBatch_PartialLastWindow(t *testing.T) {
	r := source.NewReader(writeDataset(t, sampleLines(5)))

	records, err := r.ReadBatch(context.Background(), paging.Params{Offset: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 3, records[0].LineID)
}

func TestReadBatch_InvalidParams(t *testing.T) {
	r := source.NewReader(writeDataset(t, sampleLines(3)))

	_, err := r.ReadBatch(context.Background(), paging.Params{Offset: -1, Limit: 10})
	assert.Error(t, err)

	_, err = r.ReadBatch(context.Background(), paging.Params{Offset: 0, Limit: 0})
	assert.Error(t, err)
}

func TestReadBatch_MissingFile(t *testing.T) {
	r := source.NewReader(filepath.Join(t.TempDir(), "absent.log"))

	_, err := r.ReadBatch(context.Background(), paging.Params{Offset: 0, Limit: 1})
	assert.Error(t, err)
}

func TestReadBatch_CancelledContext(t *testing.T) {
	r := source.NewReader(writeDataset(t, sampleLines(50)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ReadBatch(ctx, paging.Params{Offset: 0, Limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
