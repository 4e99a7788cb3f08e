package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
	"github.com/dromero/jsonkeep/internal/repository"
)

type fakeUserStore struct {
	seq   int64
	users map[int64]model.User
}

func newFakeUserStore(seed ...model.User) *fakeUserStore {
	f := &fakeUserStore{users: map[int64]model.User{}}
	for _, u := range seed {
		if u.ID > f.seq {
			f.seq = u.ID
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) FindByRoles(_ context.Context, page pagination.Page, roles ...string) ([]model.User, int64, error) {
	wanted := map[string]bool{}
	for _, r := range roles {
		wanted[r] = true
	}
	var out []model.User
	for _, u := range f.users {
		if wanted[u.Role] {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) Insert(_ context.Context, u model.User) (int64, error) {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return 0, repository.ErrDuplicate
		}
	}
	f.seq++
	u.ID = f.seq
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserStore) Update(_ context.Context, u model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return sql.ErrNoRows
	}
	for _, existing := range f.users {
		if existing.ID != u.ID && strings.EqualFold(existing.Username, u.Username) {
			return repository.ErrDuplicate
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeRevoker struct {
	revoked []int64
	err     error
}

func (f *fakeRevoker) RevokeAllForUser(_ context.Context, targetUserID int64) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, targetUserID)
	return nil
}

type fakeDocStore struct {
	seq  int64
	docs map[int64]model.Document
}

func newFakeDocStore(seed ...model.Document) *fakeDocStore {
	f := &fakeDocStore{docs: map[int64]model.Document{}}
	for _, d := range seed {
		if d.ID > f.seq {
			f.seq = d.ID
		}
		f.docs[d.ID] = d
	}
	return f
}

func (f *fakeDocStore) FindByID(_ context.Context, id int64) (model.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return model.Document{}, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeDocStore) FindAll(_ context.Context, page pagination.Page) ([]model.Document, int64, error) {
	var out []model.Document
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDocStore) FindAllByOwner(_ context.Context, page pagination.Page, ownerID int64) ([]model.Document, int64, error) {
	var out []model.Document
	for _, d := range f.docs {
		if d.CreatedBy == ownerID {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDocStore) FindByNameContains(_ context.Context, page pagination.Page, name string) ([]model.Document, int64, error) {
	var out []model.Document
	for _, d := range f.docs {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDocStore) ExistsByNameAndOwner(_ context.Context, name string, ownerID int64) (bool, error) {
	for _, d := range f.docs {
		if d.CreatedBy == ownerID && strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDocStore) Insert(ctx context.Context, d model.Document) (int64, error) {
	f.seq++
	d.ID = f.seq
	d.CreatedBy = auditor.CurrentID(ctx)
	d.ModifiedBy = d.CreatedBy
	d.CreatedAt = time.Now().UTC()
	d.ModifiedAt = d.CreatedAt
	f.docs[d.ID] = d
	return d.ID, nil
}

func (f *fakeDocStore) Update(ctx context.Context, d model.Document) error {
	if _, ok := f.docs[d.ID]; !ok {
		return sql.ErrNoRows
	}
	d.ModifiedBy = auditor.CurrentID(ctx)
	d.ModifiedAt = time.Now().UTC()
	f.docs[d.ID] = d
	return nil
}

func (f *fakeDocStore) Delete(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

func ctxAs(id int64, role string) context.Context {
	return auditor.WithCaller(context.Background(), auditor.Caller{ID: id, Role: role})
}
