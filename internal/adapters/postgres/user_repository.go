package postgres_adapter

import (
	"context"
	"errors" // Нужен для сравнения ошибок
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository - реализация UserRepositoryPort для PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &UserRepository{
		pool: pool,
	}, nil
}

const userColumns = `id, email, name, password_hash, role, created_at`

// Create создает нового пользователя в БД.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
		"email":     user.Email,
	})

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	repoLogger.Debug("Executing query to create user.", nil)
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 - unique_violation
			repoLogger.Warn("User with this email already exists.", nil)
			return domain.ErrEmailInUse
		}
		repoLogger.Error("Failed to create user", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create user: %w", err)
	}

	repoLogger.Debug("User created successfully.", nil)
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, repoLogger port.LoggerPort, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		// pgx.ErrNoRows возвращается из Scan, если запрос не вернул ни одной строки.
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("User not found.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find user", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByEmail находит пользователя по email.
// Возвращает (nil, nil), если пользователь не найден.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByEmail",
		"email":     email,
	})
	return r.findOne(ctx, repoLogger, "email = $1", email)
}

// FindByID - аналогично FindByEmail.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "UserRepository",
		"method":    "FindByID",
		"user_id":   id.String(),
	})
	return r.findOne(ctx, repoLogger, "id = $1", id)
}
