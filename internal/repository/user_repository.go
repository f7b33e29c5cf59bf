package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ShivamHirwani/quick-desk/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, full_name, role, created_at, updated_at"

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE email = ?")
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether email is already used by a user other than
// excludeID (pass "" for inserts).
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?")
	if err := r.db.GetContext(ctx, &count, query, email, excludeID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new user, generating its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	taken, err := r.EmailTaken(ctx, user.Email, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}

	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (id, email, password_hash, full_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// Update persists email, full name, and role changes.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`
		UPDATE users SET email = ?, full_name = ?, role = ?, updated_at = ?
		WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.FullName, user.Role, user.UpdatedAt, user.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind("DELETE FROM users WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves all users ordered by creation time, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// ListStaff retrieves assignable users (role agent or admin) ordered by name.
func (r *UserRepository) ListStaff(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	query := "SELECT " + userColumns + " FROM users WHERE role IN ('agent', 'admin') ORDER BY full_name"
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// CountTicketsFor counts tickets owned by or assigned to any of the given
// users. The user-deletion integrity guard: a non-zero count blocks the
// delete, single or bulk.
func (r *UserRepository) CountTicketsFor(ctx context.Context, userIDs []string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(
		"SELECT COUNT(*) FROM tickets WHERE user_id IN (?) OR assigned_agent_id IN (?)",
		userIDs, userIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("build ticket count query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteMany removes all given users in one statement. Callers must have
// already run the ticket guard; the batch is all-or-nothing.
func (r *UserRepository) DeleteMany(ctx context.Context, userIDs []string) error {
	query, args, err := sqlx.In("DELETE FROM users WHERE id IN (?)", userIDs)
	if err != nil {
		return fmt.Errorf("build bulk delete query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}

// UpdateRoleMany sets the role for all given users in one statement.
func (r *UserRepository) UpdateRoleMany(ctx context.Context, userIDs []string, role string) error {
	query, args, err := sqlx.In(
		"UPDATE users SET role = ?, updated_at = ? WHERE id IN (?)",
		role, time.Now().UTC(), userIDs,
	)
	if err != nil {
		return fmt.Errorf("build bulk role update query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}
