package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/futsalhq/stadium-booking/internal/utils"
)

// User mirrors the 'users' table. PasswordHash never leaves the repository
// layer: response structs select it out.
type User struct {
	ID                uint64
	Email             string
	PasswordHash      string
	Name              string
	Birth             *time.Time
	Gender            bool
	Role              string
	ProfileImageURL   string
	ThumbnailImageURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id,email,password_hash,name,birth,gender,role,profile_image_url,thumbnail_image_url,created_at,updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Birth, &u.Gender,
		&u.Role, &u.ProfileImageURL, &u.ThumbnailImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, name string, birth *time.Time, gender bool, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, birth, gender, role) VALUES (?,?,?,?,?,?)",
		email, hash, name, birth, gender, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// ListAll returns every user. The password hash is included in the struct for
// repository symmetry; handlers project it out of responses.
func (r *UserRepo) ListAll(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Birth, &u.Gender,
			&u.Role, &u.ProfileImageURL, &u.ThumbnailImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile changes name, birth and gender for the given user. Rows
// affected of zero with no error means the values were already identical, so
// only a missing row maps to sql.ErrNoRows.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name string, birth *time.Time, gender bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, birth=?, gender=? WHERE id=?",
		name, birth, gender, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err != nil {
			return err // sql.ErrNoRows when the user does not exist
		}
	}
	return nil
}

// SetProfileImages stores the uploaded image URLs for the user.
func (r *UserRepo) SetProfileImages(ctx context.Context, id uint64, imageURL, thumbURL string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile_image_url=?, thumbnail_image_url=? WHERE id=?",
		imageURL, thumbURL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user and cascades to their reservations: every active
// reservation is deleted and the capacity counters of the affected matches
// are recomputed from the remaining active reservations, all inside one
// transaction. Refresh tokens go with the user.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var one int
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&one); err != nil {
		return err // sql.ErrNoRows for a missing user
	}

	// Matches that lose an active participant need their counters redone.
	rows, qerr := tx.QueryContext(ctx,
		"SELECT DISTINCT match_id FROM reservations WHERE user_id=? AND status='active'", id)
	if qerr != nil {
		err = qerr
		return err
	}
	var matchIDs []uint64
	for rows.Next() {
		var mid uint64
		if err = rows.Scan(&mid); err != nil {
			rows.Close()
			return err
		}
		matchIDs = append(matchIDs, mid)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM reservations WHERE user_id=?", id); err != nil {
		return err
	}
	for _, mid := range matchIDs {
		if err = recomputeMatchCapacityTx(ctx, tx, mid); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id); err != nil {
		return err
	}
	return nil
}
