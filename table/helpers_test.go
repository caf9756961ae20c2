package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fixedkv/pager"
)

func newTestPager(t *testing.T) *pager.Pager {
	t.Helper()
	pgr, err := pager.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return pgr
}

func rowValue(id uint32) []byte {
	buf := make([]byte, leafNodeCellSize-leafNodeKeySize)
	buf[0] = byte(id)
	buf[1] = byte(id >> 8)
	return buf
}
