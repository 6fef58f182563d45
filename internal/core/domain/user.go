package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role - роль пользователя на площадке.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

func (r Role) IsValid() bool {
	return r == RoleLandlord || r == RoleTenant
}

// User - пользователь, общий с сервисом объявлений.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// UserProfile - публичная часть пользователя, без хэша пароля.
type UserProfile struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  Role
}

// Claims - данные, которые зашиваются в JWT токен.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (c *Claims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}

// NewUser создает нового пользователя. Хэширование пароля происходит здесь.
func NewUser(email, name, password string, role Role) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("email is invalid")
	}
	if len(password) < 6 {
		return nil, validationError("password must be at least 6 characters long")
	}
	if !role.IsValid() {
		return nil, validationError("role must be one of: landlord, tenant")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword сравнивает предоставленный пароль с хэшем, хранящимся у пользователя.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// DisplayName - имя для текстов уведомлений. Если имя не задано, берется email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
