package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
)

func seedDocs() []model.Document {
	return []model.Document{
		{ID: 1, Name: "alice-settings", JSON: `{"theme":"dark"}`, CreatedBy: 3},
		{ID: 2, Name: "bob-settings", JSON: `{"theme":"light"}`, CreatedBy: 4},
	}
}

func newJSONService(t *testing.T, docs []model.Document, users []model.User) (*JSONService, *fakeDocStore) {
	t.Helper()
	store := newFakeDocStore(docs...)
	return NewJSONService(store, newFakeUserStore(users...), zap.NewNop()), store
}

func TestGetByIDPublic(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	d, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice-settings", d.Name)

	_, err = svc.GetByID(context.Background(), 99)
	assert.True(t, isKind(err, apperr.IDNotFound))
}

func TestGetOwnChecksOwnership(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	d, err := svc.GetOwn(ctxAs(3, model.RoleUser), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.CreatedBy)

	_, err = svc.GetOwn(ctxAs(3, model.RoleUser), 2)
	assert.True(t, isKind(err, apperr.NotOwner))

	_, err = svc.GetOwn(context.Background(), 1)
	assert.True(t, isKind(err, apperr.Forbidden))
}

func TestSearchByName(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	docs, total, err := svc.SearchByName(context.Background(), "settings", pagination.Parse("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, docs, 2)

	_, total, err = svc.SearchByName(context.Background(), "alice", pagination.Parse("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestListOwn(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	docs, total, err := svc.ListOwn(ctxAs(3, model.RoleUser), pagination.Parse("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(3), docs[0].CreatedBy)
}

func TestListAllIsManagerOnly(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	_, total, err := svc.ListAll(ctxAs(1, model.RoleAdmin), pagination.Parse("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.ListAll(ctxAs(3, model.RoleUser), pagination.Parse("", "", ""))
	assert.True(t, isKind(err, apperr.Forbidden))
}

func TestListByUser(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), []model.User{
		{ID: 3, Username: "alice", Role: model.RoleUser, Active: true},
	})
	admin := ctxAs(1, model.RoleAdmin)

	_, total, err := svc.ListByUser(admin, 3, pagination.Parse("", "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, _, err = svc.ListByUser(admin, 99, pagination.Parse("", "", ""))
	assert.True(t, isKind(err, apperr.IDNotFound), "unknown owner id")
}

func TestCreateStampsOwner(t *testing.T) {
	svc, store := newJSONService(t, nil, nil)

	id, err := svc.Create(ctxAs(3, model.RoleUser), DocumentInput{Name: "prefs", JSON: `{"a":1}`})
	require.NoError(t, err)
	assert.Equal(t, int64(3), store.docs[id].CreatedBy)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newJSONService(t, nil, nil)
	ctx := ctxAs(3, model.RoleUser)

	cases := []struct {
		name string
		in   DocumentInput
	}{
		{"missing name", DocumentInput{JSON: `{"a":1}`}},
		{"payload too short", DocumentInput{Name: "x", JSON: "{}"}},
		{"payload too long", DocumentInput{Name: "x", JSON: `{"k":"` + strings.Repeat("a", 2048) + `"}`}},
		{"payload not JSON", DocumentInput{Name: "x", JSON: "not json at all"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tc.in)
		assert.True(t, isKind(err, apperr.InvalidField), tc.name)
	}
}

func TestCreateUniqueNamePerOwner(t *testing.T) {
	svc, _ := newJSONService(t, seedDocs(), nil)

	_, err := svc.Create(ctxAs(3, model.RoleUser), DocumentInput{Name: "alice-settings", JSON: `{"a":1}`})
	assert.True(t, isKind(err, apperr.DataIntegrity))

	// the same name under a different owner is fine
	_, err = svc.Create(ctxAs(5, model.RoleUser), DocumentInput{Name: "alice-settings", JSON: `{"a":1}`})
	assert.NoError(t, err)
}

func TestUpdateOwnChecksOwnership(t *testing.T) {
	svc, store := newJSONService(t, seedDocs(), nil)

	err := svc.UpdateOwn(ctxAs(3, model.RoleUser), 2, DocumentInput{JSON: `{"b":2}`})
	assert.True(t, isKind(err, apperr.NotOwner))

	require.NoError(t, svc.UpdateOwn(ctxAs(3, model.RoleUser), 1, DocumentInput{JSON: `{"b":2}`}))
	assert.Equal(t, `{"b":2}`, store.docs[1].JSON)
	assert.Equal(t, "alice-settings", store.docs[1].Name, "absent fields stay unchanged")
}

func TestUpdateAnyIgnoresOwnership(t *testing.T) {
	svc, store := newJSONService(t, seedDocs(), nil)

	require.NoError(t, svc.UpdateAny(ctxAs(1, model.RoleAdmin), 2, DocumentInput{Path: "/archive"}))
	assert.Equal(t, "/archive", store.docs[2].Path)

	err := svc.UpdateAny(ctxAs(3, model.RoleUser), 2, DocumentInput{Path: "/x"})
	assert.True(t, isKind(err, apperr.Forbidden))
}

func TestUpdateRenameChecksUniqueness(t *testing.T) {
	svc, _ := newJSONService(t, []model.Document{
		{ID: 1, Name: "one", JSON: `{"a":1}`, CreatedBy: 3},
		{ID: 2, Name: "two", JSON: `{"a":2}`, CreatedBy: 3},
	}, nil)

	err := svc.UpdateOwn(ctxAs(3, model.RoleUser), 2, DocumentInput{Name: "one"})
	assert.True(t, isKind(err, apperr.DataIntegrity))
}

func TestDeleteOwnChecksOwnership(t *testing.T) {
	svc, store := newJSONService(t, seedDocs(), nil)

	err := svc.DeleteOwn(ctxAs(3, model.RoleUser), 2)
	assert.True(t, isKind(err, apperr.NotOwner))
	assert.Contains(t, store.docs, int64(2))

	require.NoError(t, svc.DeleteOwn(ctxAs(3, model.RoleUser), 1))
	assert.NotContains(t, store.docs, int64(1))
}

func TestDeleteAny(t *testing.T) {
	svc, store := newJSONService(t, seedDocs(), nil)

	require.NoError(t, svc.DeleteAny(ctxAs(1, model.RoleAdmin), 2))
	assert.NotContains(t, store.docs, int64(2))

	err := svc.DeleteAny(ctxAs(1, model.RoleAdmin), 99)
	assert.True(t, isKind(err, apperr.IDNotFound))
}
