package table

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fixedkv/row"
)

func TestOpenFreshFileHasEmptyLeafRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)

	rows, err := tbl.SelectAll()
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Equal(t, 1, tbl.Height())
}

func TestInsertAndSelectAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)

	want := []row.Row{
		{ID: 2, Username: "bob", Email: "bob@example.com"},
		{ID: 1, Username: "alice", Email: "alice@example.com"},
	}
	for _, r := range want {
		require.NoError(t, tbl.Insert(r))
	}

	got, err := tbl.SelectAll()
	require.NoError(t, err)
	require.Equal(t, []row.Row{want[1], want[0]}, got)
}

func TestInsertDuplicateKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(row.Row{ID: 1, Username: "a", Email: "a@a"}))
	err = tbl.Insert(row.Row{ID: 1, Username: "b", Email: "b@b"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	rows, err := tbl.SelectAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "a", rows[0].Username)
}

func TestInsertRejectsOverLongUsername(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)

	longName := make([]byte, row.UsernameSize+1)
	for i := range longName {
		longName[i] = 'x'
	}
	err = tbl.Insert(row.Row{ID: 1, Username: string(longName), Email: "e@e"})
	require.ErrorIs(t, err, row.ErrStringTooLong)

	rows, err := tbl.SelectAll()
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestPersistenceRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	tbl, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(row.Row{ID: 1, Username: "user1", Email: "person1@example.com"}))
	require.NoError(t, tbl.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	rows, err := reopened.SelectAll()
	require.NoError(t, err)
	require.Equal(t, []row.Row{{ID: 1, Username: "user1", Email: "person1@example.com"}}, rows)
}

func TestGetFindsInsertedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(row.Row{ID: 7, Username: "g", Email: "g@g"}))

	r, found, err := tbl.Get(7)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "g", r.Username)

	_, found, err = tbl.Get(99)
	require.NoError(t, err)
	require.False(t, found)
}

func TestPrintTreeOnSingleLeaf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(row.Row{ID: 1, Username: "a", Email: "a@a"}))

	var buf strings.Builder
	require.NoError(t, tbl.PrintTree(&buf))
	require.Contains(t, buf.String(), "leaf (size 1)")
}
