package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
)

type RegisterUserUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	accessTokenTTL time.Duration
}

func NewRegisterUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, accessTokenTTL time.Duration) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, req usecases_port.RegisterUserRequest) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterUser",
		"email":    email,
		"role":     req.Role,
	})

	ucLogger.Info("Use case started: attempting to register user", nil)

	existingUser, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed while checking for existing email", err, nil)
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existingUser != nil {
		ucLogger.Warn("Registration failed: email already in use", nil)
		return nil, "", domain.ErrEmailInUse
	}

	// хэширование пароля происходит внутри NewUser
	user, err := domain.NewUser(email, req.Name, req.Password, req.Role)
	if err != nil {
		ucLogger.Warn("Registration data is invalid", port.Fields{"error": err.Error()})
		return nil, "", err
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// гонка двух регистраций с одним email ловится уникальным индексом
		if errors.Is(err, domain.ErrEmailInUse) {
			ucLogger.Warn("Registration failed: email already in use", nil)
			return nil, "", err
		}
		ucLogger.Error("Repository failed to create user", err, nil)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful registration", err, nil)
		return nil, "", err
	}

	ucLogger.Info("Use case finished: user registered successfully", nil)
	return user, token, nil
}
