package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/docfill/roster"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func member(edipi, last string) roster.Member {
	return roster.Member{
		Rank:      "sgt",
		FirstName: "Denny",
		LastName:  last,
		EDIPI:     edipi,
		DOR:       20230115,
		PMOS:      "0311",
		BilMOS:    "0369",
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.CreateMember(ctx, member("1234567890", "Li")))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.GetMember(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "LI", got.LastName)
}

func TestMemberCRUD(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateMember(ctx, member("1234567890", "li")))

	got, err := store.GetMember(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "SGT", got.Rank)
	assert.Equal(t, "DENNY", got.FirstName)
	assert.Equal(t, "LI", got.LastName)
	assert.Equal(t, "", got.MI)
	assert.Equal(t, 20230115, got.DOR)

	updated := got
	updated.Rank = "SSGT"
	updated.MI = "k"
	require.NoError(t, store.UpdateMember(ctx, updated))
	got, err = store.GetMember(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "SSGT", got.Rank)
	assert.Equal(t, "K", got.MI)

	require.NoError(t, store.DeleteMember(ctx, "1234567890"))
	_, err = store.GetMember(ctx, "1234567890")
	assert.True(t, errors.Is(err, roster.ErrNotFound))
}

func TestCreateMember_Duplicate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateMember(ctx, member("1234567890", "Li")))
	err := store.CreateMember(ctx, member("1234567890", "Other"))
	assert.True(t, errors.Is(err, roster.ErrAlreadyExists))
}

func TestCreateMember_Invalid(t *testing.T) {
	store := openTempStore(t)
	err := store.CreateMember(context.Background(), member("12345", "Li"))
	assert.True(t, errors.Is(err, roster.ErrInvalid))
}

func TestMissingMember(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(store.UpdateMember(ctx, member("1234567890", "Li")), roster.ErrNotFound))
	assert.True(t, errors.Is(store.DeleteMember(ctx, "1234567890"), roster.ErrNotFound))
}

func TestListMembers(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	a := member("1000000001", "Zed")
	b := member("1000000002", "Adams")
	b.Rank = "cpl"
	b.BilMOS = "0311"
	require.NoError(t, store.CreateMember(ctx, a))
	require.NoError(t, store.CreateMember(ctx, b))

	all, err := store.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ADAMS", all[0].LastName)

	byRank, err := store.ListMembersByRank(ctx, "Cpl")
	require.NoError(t, err)
	require.Len(t, byRank, 1)
	assert.Equal(t, "1000000002", byRank[0].EDIPI)

	byMOS, err := store.ListMembersByMOS(ctx, "0369")
	require.NoError(t, err)
	require.Len(t, byMOS, 1)
	assert.Equal(t, "1000000001", byMOS[0].EDIPI)

	none, err := store.ListMembersByRank(ctx, "GEN")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMOSCRUD(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateMOS(ctx, roster.MOS{BilMOS: "0369", Description: "Infantry Unit Leader"}))
	err := store.CreateMOS(ctx, roster.MOS{BilMOS: "0369", Description: "dup"})
	assert.True(t, errors.Is(err, roster.ErrAlreadyExists))

	got, err := store.GetMOS(ctx, "0369")
	require.NoError(t, err)
	assert.Equal(t, "Infantry Unit Leader", got.Description)

	require.NoError(t, store.UpdateMOS(ctx, roster.MOS{BilMOS: "0369", Description: "Infantry Leader"}))
	list, err := store.ListMOS(ctx)
	require.NoError(t, err)
	assert.Equal(t, []roster.MOS{{BilMOS: "0369", Description: "Infantry Leader"}}, list)

	require.NoError(t, store.DeleteMOS(ctx, "0369"))
	_, err = store.GetMOS(ctx, "0369")
	assert.True(t, errors.Is(err, roster.ErrNotFound))
	assert.True(t, errors.Is(store.UpdateMOS(ctx, roster.MOS{BilMOS: "0369", Description: "x"}), roster.ErrNotFound))
}

func TestTables(t *testing.T) {
	store := openTempStore(t)

	tables, err := store.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mos", "roster"}, tables)
}
