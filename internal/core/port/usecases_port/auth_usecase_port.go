package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"
)

type RegisterUserRequest struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

type RegisterUserUseCasePort interface {
	Execute(ctx context.Context, req RegisterUserRequest) (*domain.User, string, error)
}

type LoginUserUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.User, string, error)
}

type ValidateTokenUseCasePort interface {
	Execute(ctx context.Context, token string) (*domain.Claims, error)
}
