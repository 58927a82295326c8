package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, password_hash, role, first_name, last_name, email,
	avatar_url, epaper_id, epaper_import_url, epaper_import_key,
	epaper_export_url, epaper_export_key, current_status, custom_status_text,
	last_updated, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Email, &u.AvatarURL, &u.EpaperID, &u.EpaperImportURL, &u.EpaperImportKey,
		&u.EpaperExportURL, &u.EpaperExportKey, &u.CurrentStatus, &u.CustomStatusText,
		&u.LastUpdated, &u.CreatedAt,
	)
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, username, password_hash, role, first_name, last_name, email,
			avatar_url, epaper_id, epaper_import_url, epaper_import_key,
			epaper_export_url, epaper_export_key, current_status,
			custom_status_text, last_updated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.FirstName, u.LastName,
		u.Email, u.AvatarURL, u.EpaperID, u.EpaperImportURL, u.EpaperImportKey,
		u.EpaperExportURL, u.EpaperExportKey, u.CurrentStatus, u.CustomStatusText,
		u.LastUpdated, u.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET
			username = ?, password_hash = ?, role = ?, first_name = ?,
			last_name = ?, email = ?, avatar_url = ?, epaper_id = ?,
			epaper_import_url = ?, epaper_import_key = ?,
			epaper_export_url = ?, epaper_export_key = ?
		WHERE id = ?`,
		u.Username, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Email,
		u.AvatarURL, u.EpaperID, u.EpaperImportURL, u.EpaperImportKey,
		u.EpaperExportURL, u.EpaperExportKey, u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID, status, customText string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET current_status = ?, custom_status_text = ?, last_updated = ?
		WHERE id = ?`,
		status, customText, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
