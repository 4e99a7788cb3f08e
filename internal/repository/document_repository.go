package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
)

const documentColumns = "id,name,json,path,created_by,modified_by,created_at,modified_at"

// DocumentRepo reads and writes JSON contents. Audit columns are stamped
// here, at the single write site, from the request caller.
type DocumentRepo struct{ DB *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{DB: db} }

var documentSortColumns = map[string]string{
	"id":   "id",
	"name": "name",
	"path": "path",
}

// FindByID fetches a document by id.
func (r *DocumentRepo) FindByID(ctx context.Context, id int64) (model.Document, error) {
	var d model.Document
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM json_contents WHERE id=? LIMIT 1", id).
		Scan(&d.ID, &d.Name, &d.JSON, &d.Path, &d.CreatedBy, &d.ModifiedBy, &d.CreatedAt, &d.ModifiedAt)
	return d, err
}

// FindAll returns one page over every document.
func (r *DocumentRepo) FindAll(ctx context.Context, page pagination.Page) ([]model.Document, int64, error) {
	return r.findPage(ctx, page, "", nil)
}

// FindAllByOwner returns one page over the documents created by ownerID.
func (r *DocumentRepo) FindAllByOwner(ctx context.Context, page pagination.Page, ownerID int64) ([]model.Document, int64, error) {
	return r.findPage(ctx, page, "WHERE created_by=?", []any{ownerID})
}

// FindByNameContains returns one page over documents whose name contains the
// fragment, case-insensitively.
func (r *DocumentRepo) FindByNameContains(ctx context.Context, page pagination.Page, name string) ([]model.Document, int64, error) {
	return r.findPage(ctx, page, "WHERE LOWER(name) LIKE ?", []any{"%" + strings.ToLower(name) + "%"})
}

// ExistsByNameAndOwner reports whether the owner already has a document with
// the given name, ignoring case.
func (r *DocumentRepo) ExistsByNameAndOwner(ctx context.Context, name string, ownerID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM json_contents WHERE LOWER(name)=? AND created_by=?",
		strings.ToLower(name), ownerID).Scan(&n)
	return n > 0, err
}

// Insert stores a new document stamped with the request caller and returns
// its id.
func (r *DocumentRepo) Insert(ctx context.Context, d model.Document) (int64, error) {
	by := auditor.CurrentID(ctx)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO json_contents (name, json, path, created_by, modified_by) VALUES (?,?,?,?,?)",
		d.Name, d.JSON, d.Path, by, by)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites the mutable fields of a document and restamps modified_by.
func (r *DocumentRepo) Update(ctx context.Context, d model.Document) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE json_contents SET name=?, json=?, path=?, modified_by=? WHERE id=?",
		d.Name, d.JSON, d.Path, auditor.CurrentID(ctx), d.ID)
	return err
}

// Delete removes a document row.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM json_contents WHERE id=?", id)
	return err
}

func (r *DocumentRepo) findPage(ctx context.Context, page pagination.Page, where string, args []any) ([]model.Document, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		strings.TrimSpace("SELECT COUNT(*) FROM json_contents "+where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	limit, offset := page.LimitOffset()
	query := strings.TrimSpace("SELECT " + documentColumns + " FROM json_contents " + where)
	query += " ORDER BY " + page.OrderBy(documentSortColumns) + " LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.JSON, &d.Path, &d.CreatedBy, &d.ModifiedBy, &d.CreatedAt, &d.ModifiedAt); err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}
