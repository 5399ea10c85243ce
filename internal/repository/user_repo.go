package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  db,
		log: logger,
	}
}

const userColumns = `id, full_name, email, phone_number, password_hash, img_avatar_url,
	role, verification_code, is_verified, points, discount_code, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Role,
		&user.VerificationCode,
		&user.IsVerified,
		&user.Points,
		&user.DiscountCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (full_name, email, phone_number, password_hash, role, verification_code)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, is_verified, points, created_at, updated_at`
	err := r.db.QueryRow(query,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		user.VerificationCode,
	).Scan(&user.ID, &user.IsVerified, &user.Points, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to register duplicate user: %s", user.Email)
			return nil, fmt.Errorf("user with this email or phone number %w", domain.ErrDuplicate)
		}
		r.log.Errorf("Failed to create user %s: %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	r.log.Infof("User created successfully with ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("User with ID %d not found", id)
			return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("User with email %s not found", email)
			return nil, fmt.Errorf("user with email %s %w", email, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdateUser(user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET full_name = $1, email = $2, phone_number = $3, password_hash = $4,
            img_avatar_url = $5, role = $6, verification_code = $7, is_verified = $8,
            points = $9, discount_code = $10, updated_at = NOW()
        WHERE id = $11
        RETURNING updated_at`
	err := r.db.QueryRow(query,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.AvatarURL,
		user.Role,
		user.VerificationCode,
		user.IsVerified,
		user.Points,
		user.DiscountCode,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("User with ID %d not found for update", user.ID)
			return nil, fmt.Errorf("user with id %d %w", user.ID, domain.ErrNotFound)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("user with this email or phone number %w", domain.ErrDuplicate)
		}
		r.log.Errorf("Failed to update user ID %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	r.log.Infof("User updated successfully with ID: %d", user.ID)
	return user, nil
}

func (r *postgresUserRepository) DeleteUser(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete user ID %d: %v", id, err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting user ID %d: %v", id, err)
		return fmt.Errorf("could not confirm user deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent user ID %d", id)
		return fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("User deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresUserRepository) ListUsers(limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list users with limit %d, offset %d: %v", limit, offset, err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Errorf("Failed to scan user row: %v", err)
			return nil, fmt.Errorf("error scanning user data: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during users list iteration: %v", err)
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	r.log.Infof("Retrieved %d users (limit: %d, offset: %d)", len(users), limit, offset)
	return users, nil
}
