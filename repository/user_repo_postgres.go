package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"trolleyseal/models"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type PostgresUserRepo struct {
	DB *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{DB: db}
}

// CreateUser creates a user after validating email uniqueness and hashing password
func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("email already exists")
	}

	if user.Password == "" {
		return errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO app_user (name, email, staff_number, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Name, user.Email, user.StaffNumber, user.Password, user.CreatedAt).Scan(&user.ID)
}

// GetUserByEmail fetches user by email
func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, staff_number, password_hash, created_at
		FROM app_user
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.StaffNumber, &user.Password, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// GetUsersByIDs resolves users in one query instead of one per id.
func (r *PostgresUserRepo) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.AppUser, error) {
	users := make(map[string]*models.AppUser)
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, staff_number, created_at
		FROM app_user
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u := &models.AppUser{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.StaffNumber, &u.CreatedAt); err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, rows.Err()
}
