package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/records"
	"github.com/waypost/waypost/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.EnsureSchema())
	return s
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, s *store.Store, guid string) records.User {
	t.Helper()
	u, err := store.Create[records.User](s, &records.RequestUser{
		GUID:    ptr(guid),
		Name:    ptr("Ada"),
		Email:   ptr("ada@example.com"),
		Picture: ptr("https://example.com/ada.png"),
	})
	require.NoError(t, err)
	return u
}

func createNote(t *testing.T, s *store.Store, ownerID int64, contents string) records.Note {
	t.Helper()
	n, err := store.Create[records.Note](s, &records.RequestNote{
		OwnerID:  ptr(ownerID),
		Contents: ptr(contents),
	})
	require.NoError(t, err)
	return n
}

func TestCreateAssignsID(t *testing.T) {
	s := newTestStore(t)
	u := createUser(t, s, "google/1")
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "google/1", u.GUID)

	got, err := store.Get[records.User](s, u.ID)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := store.Get[records.User](s, 42)
	require.Error(t, err)
	require.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestGetQueriesFilters(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")
	bob := createUser(t, s, "google/bob")

	createNote(t, s, ada.ID, "buy milk")
	createNote(t, s, ada.ID, "call mom")
	createNote(t, s, bob.ID, "buy stamps")

	mine, err := store.GetQueries[records.Note](s, []store.Criteria{
		store.Equals("owner_id", ada.ID),
	})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	buying, err := store.GetQueries[records.Note](s, []store.Criteria{
		store.Equals("owner_id", ada.ID),
		store.Contains("contents", "buy"),
	})
	require.NoError(t, err)
	require.Len(t, buying, 1)
	require.Equal(t, "buy milk", buying[0].Contents)

	all, err := store.GetQueries[records.Note](s, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGetQueriesDisjunction(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")
	createNote(t, s, ada.ID, "buy milk")
	createNote(t, s, ada.ID, "call mom")
	createNote(t, s, ada.ID, "water plants")

	either, err := store.GetQueries[records.Note](s, []store.Criteria{
		store.Or(store.Contains("contents", "milk"), store.Contains("contents", "mom")),
	})
	require.NoError(t, err)
	require.Len(t, either, 2)
}

func TestUpdateScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")
	note := createNote(t, s, ada.ID, "draft")

	updated, err := store.Update[records.Note](s, &records.RequestNote{
		ID:       ptr(note.ID),
		OwnerID:  ptr(ada.ID),
		Contents: ptr("final"),
	})
	require.NoError(t, err)
	require.Equal(t, "final", updated.Contents)

	// A different owner never matches the row.
	_, err = store.Update[records.Note](s, &records.RequestNote{
		ID:       ptr(note.ID),
		OwnerID:  ptr(ada.ID + 1),
		Contents: ptr("hijacked"),
	})
	require.Error(t, err)
	require.Equal(t, errs.NotCreated, errs.CodeOf(err))

	got, err := store.Get[records.Note](s, note.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Contents)
}

func TestUpdateRequiresIDAndOwner(t *testing.T) {
	s := newTestStore(t)
	_, err := store.Update[records.Note](s, &records.RequestNote{
		OwnerID:  ptr(int64(1)),
		Contents: ptr("x"),
	})
	require.Equal(t, errs.NotCreated, errs.CodeOf(err))

	_, err = store.Update[records.Note](s, &records.RequestNote{
		ID:       ptr(int64(1)),
		Contents: ptr("x"),
	})
	require.Equal(t, errs.NotCreated, errs.CodeOf(err))
}

func TestDeleteOwnerScoped(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")
	note := createNote(t, s, ada.ID, "keep out")

	_, err := store.Delete[records.Note](s, note.ID, ptr(ada.ID+1))
	require.Error(t, err)
	require.Equal(t, errs.NotFound, errs.CodeOf(err))

	deleted, err := store.Delete[records.Note](s, note.ID, ptr(ada.ID))
	require.NoError(t, err)
	require.Equal(t, note, deleted)

	_, err = store.Get[records.Note](s, note.ID)
	require.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestDeleteWithoutOwnerFiltersByIDAlone(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")
	note := createNote(t, s, ada.ID, "anything")

	deleted, err := store.Delete[records.Note](s, note.ID, nil)
	require.NoError(t, err)
	require.Equal(t, note, deleted)
}

// Users own themselves, so the owner filter collapses away and the
// asserted owner is ignored.
func TestDeleteSelfOwningIgnoresAssertedOwner(t *testing.T) {
	s := newTestStore(t)
	ada := createUser(t, s, "google/ada")

	deleted, err := store.Delete[records.User](s, ada.ID, ptr(ada.ID+99))
	require.NoError(t, err)
	require.Equal(t, ada, deleted)
}

func TestResetDropsRows(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "google/ada")
	require.NoError(t, s.Reset())

	users, err := store.GetQueries[records.User](s, nil)
	require.NoError(t, err)
	require.Empty(t, users)
}
