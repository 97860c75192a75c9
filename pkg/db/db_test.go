package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edinet-facts/pkg/extract"
	"edinet-facts/pkg/taxonomy"
	"edinet-facts/pkg/xbrl"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestArchiveRoundTrip(t *testing.T) {
	db := testDB(t)

	ok, err := db.HasArchive("S100ABCD")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte("zip bytes")
	require.NoError(t, db.StoreArchive("S100ABCD", "テスト投資信託", "有価証券報告書", payload))

	ok, err = db.HasArchive("S100ABCD")
	require.NoError(t, err)
	assert.True(t, ok)

	filer, archive, err := db.GetArchive("S100ABCD")
	require.NoError(t, err)
	assert.Equal(t, "テスト投資信託", filer)
	assert.Equal(t, payload, archive)
}

func TestStoreArchiveReplaces(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.StoreArchive("S100ABCD", "旧名", "x", []byte("v1")))
	require.NoError(t, db.StoreArchive("S100ABCD", "新名", "x", []byte("v2")))

	filer, archive, err := db.GetArchive("S100ABCD")
	require.NoError(t, err)
	assert.Equal(t, "新名", filer)
	assert.Equal(t, []byte("v2"), archive)

	filings, err := db.ListFilings()
	require.NoError(t, err)
	assert.Len(t, filings, 1)
}

func TestGetArchiveMissing(t *testing.T) {
	db := testDB(t)
	_, _, err := db.GetArchive("S100NONE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S100NONE")
}

func TestResultRoundTrip(t *testing.T) {
	db := testDB(t)

	stored := &xbrl.Result{
		Category:  taxonomy.InvestmentTrust,
		FactCount: 4,
		TagIDs:    []string{"jppfs_cor:Assets", "jppfs_cor:NetAssets"},
		Financials: map[string]extract.Result{
			"total_assets": {Concept: "total_assets", DisplayName: "資産合計", Value: 67708176982},
		},
		Summary: "summary",
	}
	require.NoError(t, db.StoreResult("S100ABCD", stored))

	got, err := db.GetResult("S100ABCD")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestGetResultMissing(t *testing.T) {
	db := testDB(t)
	_, err := db.GetResult("S100NONE")
	assert.Error(t, err)
}

func TestIsResultStale(t *testing.T) {
	db := testDB(t)

	stale, err := db.IsResultStale("S100NONE", time.Hour)
	require.NoError(t, err)
	assert.True(t, stale, "missing results count as stale")

	require.NoError(t, db.StoreResult("S100ABCD", &xbrl.Result{Category: taxonomy.Unknown}))

	stale, err = db.IsResultStale("S100ABCD", time.Hour)
	require.NoError(t, err)
	assert.False(t, stale)

	stale, err = db.IsResultStale("S100ABCD", 0)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestListFilings(t *testing.T) {
	db := testDB(t)

	filings, err := db.ListFilings()
	require.NoError(t, err)
	assert.Empty(t, filings)

	require.NoError(t, db.StoreArchive("S100AAAA", "A社", "有価証券報告書", []byte("a")))
	require.NoError(t, db.StoreArchive("S100BBBB", "B社", "有価証券報告書", []byte("b")))

	filings, err = db.ListFilings()
	require.NoError(t, err)
	require.Len(t, filings, 2)
	for _, f := range filings {
		assert.NotEmpty(t, f.DocID)
		assert.NotEmpty(t, f.FilerName)
	}
}
