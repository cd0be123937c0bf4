package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge/backend/usecase"
)

func openStore(t *testing.T, retention int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "claims.db"), retention)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(listingID, callerID, outcome string, at time.Time) usecase.ClaimRecord {
	return usecase.ClaimRecord{
		ListingID: listingID,
		CallerID:  callerID,
		Outcome:   outcome,
		At:        at,
	}
}

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()

	store := openStore(t, 100)
	base := time.Now().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		err := store.Append(record("listing-1", "recv-1", "claimed", base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// newest first
	assert.Equal(t, base.Add(2*time.Second).Unix(), records[0].At.Unix())
	assert.Equal(t, base.Unix(), records[2].At.Unix())
	assert.Equal(t, "listing-1", records[0].ListingID)
	assert.Equal(t, "recv-1", records[0].CallerID)
	assert.Equal(t, "claimed", records[0].Outcome)
}

func TestRecent_Limit(t *testing.T) {
	t.Parallel()

	store := openStore(t, 100)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(record("listing-1", "recv-1", "denied", time.Now())))
	}

	records, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAppend_FillsTimestamp(t *testing.T) {
	t.Parallel()

	store := openStore(t, 100)
	require.NoError(t, store.Append(usecase.ClaimRecord{ListingID: "listing-1", Outcome: "claimed"}))

	records, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].At.IsZero())
}

func TestRetention_PrunesOldest(t *testing.T) {
	t.Parallel()

	const retention = 5

	store := openStore(t, retention)
	base := time.Now().Truncate(time.Second)

	for i := 0; i < retention+3; i++ {
		id := string(rune('a' + i))
		require.NoError(t, store.Append(record(id, "recv-1", "claimed", base.Add(time.Duration(i)*time.Second))))
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, retention, size)

	records, err := store.Recent(retention + 3)
	require.NoError(t, err)
	require.Len(t, records, retention)
	// the oldest three were pruned; the newest survives
	assert.Equal(t, string(rune('a'+retention+2)), records[0].ListingID)
	assert.Equal(t, string(rune('a'+3)), records[len(records)-1].ListingID)
}

func TestReopen_RecordsSurvive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "claims.db")

	store, err := Open(path, 100)
	require.NoError(t, err)
	require.NoError(t, store.Append(record("listing-1", "recv-1", "claimed", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(path, 100)
	require.NoError(t, err)
	defer reopened.Close()

	size, err := reopened.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
