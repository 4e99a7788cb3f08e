package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
)

const userColumns = "id,names,email,id_card,username,password_hash,role,active,locked,created_by,modified_by,created_at,modified_at"

// UserRepo reads and writes principals in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Names, &u.Email, &u.IDCard, &u.Username, &u.PasswordHash,
		&u.Role, &u.Active, &u.Locked, &u.CreatedBy, &u.ModifiedBy, &u.CreatedAt, &u.ModifiedAt)
	return u, err
}

// FindByUsername fetches a principal by case-folded username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username)=? LIMIT 1", username))
}

// FindByID fetches a principal by id.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ExistsByID reports whether a principal with the given id exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id=?", id).Scan(&n)
	return n > 0, err
}

// CountByRoles counts principals holding any of the given roles.
func (r *UserRepo) CountByRoles(ctx context.Context, roles ...string) (int64, error) {
	query, args := rolePlaceholders("SELECT COUNT(*) FROM users WHERE role IN (%s)", roles)
	var n int64
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

var userSortColumns = map[string]string{
	"id":       "id",
	"username": "username",
	"names":    "names",
	"email":    "email",
	"role":     "role",
}

// FindByRoles returns one page of principals holding any of the given roles,
// plus the unpaged total.
func (r *UserRepo) FindByRoles(ctx context.Context, page pagination.Page, roles ...string) ([]model.User, int64, error) {
	total, err := r.CountByRoles(ctx, roles...)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := page.LimitOffset()
	query, args := rolePlaceholders(
		"SELECT "+userColumns+" FROM users WHERE role IN (%s) ORDER BY "+page.OrderBy(userSortColumns)+" LIMIT ? OFFSET ?", roles)
	args = append(args, limit, offset)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Names, &u.Email, &u.IDCard, &u.Username, &u.PasswordHash,
			&u.Role, &u.Active, &u.Locked, &u.CreatedBy, &u.ModifiedBy, &u.CreatedAt, &u.ModifiedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Insert stores a new principal and returns its id. Audit columns are
// stamped from the request caller, or the sentinel when absent.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (int64, error) {
	by := auditor.CurrentID(ctx)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (names,email,id_card,username,password_hash,role,active,locked,created_by,modified_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		u.Names, u.Email, u.IDCard, strings.ToLower(strings.TrimSpace(u.Username)),
		u.PasswordHash, u.Role, u.Active, u.Locked, by, by)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites the mutable fields of a principal.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET names=?, email=?, id_card=?, username=?, password_hash=?, role=?, active=?, locked=?, modified_by=?
		 WHERE id=?`,
		u.Names, u.Email, u.IDCard, strings.ToLower(strings.TrimSpace(u.Username)),
		u.PasswordHash, u.Role, u.Active, u.Locked, auditor.CurrentID(ctx), u.ID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a principal row.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// rolePlaceholders expands the IN (%s) clause with one placeholder per role.
func rolePlaceholders(query string, roles []string) (string, []any) {
	marks := strings.TrimSuffix(strings.Repeat("?,", len(roles)), ",")
	args := make([]any, 0, len(roles)+2)
	for _, role := range roles {
		args = append(args, role)
	}
	return strings.Replace(query, "%s", marks, 1), args
}
