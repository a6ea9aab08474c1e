package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oakheart/signon/internal/signon/domain"
)

type usersRepo struct {
	q     querier
	table string
}

const userColumns = `id, email, google_id, name, given_name, family_name, locale, picture, verified_email, password_hash, created_at, last_login`

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = ?`, userColumns, r.table)

	row := r.q.QueryRowContext(ctx, query, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, userColumns, r.table)

	row := r.q.QueryRowContext(ctx, query, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.table, userColumns,
	)

	_, err := r.q.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.GoogleID,
		mapStringNull(u.Name),
		mapStringNull(u.GivenName),
		mapStringNull(u.FamilyName),
		mapStringNull(u.Locale),
		mapStringNull(u.Picture),
		u.VerifiedEmail,
		mapStringNull(u.PasswordHash),
		u.CreatedAt,
		mapTimeNull(u.LastLogin),
	)
	return mapConflict(err)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)

	var count int64
	if err := r.q.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u             domain.User
		name          sql.NullString
		givenName     sql.NullString
		familyName    sql.NullString
		locale        sql.NullString
		picture       sql.NullString
		passwordHash  sql.NullString
		lastLogin     sql.NullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.GoogleID,
		&name,
		&givenName,
		&familyName,
		&locale,
		&picture,
		&u.VerifiedEmail,
		&passwordHash,
		&u.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Name = mapNullString(name)
	u.GivenName = mapNullString(givenName)
	u.FamilyName = mapNullString(familyName)
	u.Locale = mapNullString(locale)
	u.Picture = mapNullString(picture)
	u.PasswordHash = mapNullString(passwordHash)
	u.LastLogin = mapNullTimePtr(lastLogin)

	return u, nil
}
