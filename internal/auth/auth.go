package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProviderLocal marks sessions established by username/password login.
const ProviderLocal = "local"

var (
	// ErrInvalidCredentials covers unknown username, missing hash and
	// password mismatch alike; callers get no hint which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Authenticator verifies credentials and registers users against the
// relational store.
type Authenticator struct {
	db         *gorm.DB
	bcryptCost int
}

func New(db *gorm.DB, bcryptCost int) *Authenticator {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Authenticator{db: db, bcryptCost: bcryptCost}
}

// VerifyCredentials looks up the user by username and compares the
// supplied password against the stored bcrypt hash. Every failure mode
// maps to ErrInvalidCredentials.
func (a *Authenticator) VerifyCredentials(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	var user models.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// RegisterProfile is the input to Register.
type RegisterProfile struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func (p *RegisterProfile) validate() *util.InvalidInput {
	var fields []util.FieldError

	if len(strings.TrimSpace(p.Username)) < 3 {
		fields = append(fields, util.FieldError{Field: "username", Message: "must be at least 3 characters"})
	}
	if err := util.ValidateEmail(util.NormalizeEmail(p.Email)); err != nil {
		fields = append(fields, util.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if strings.TrimSpace(p.FirstName) == "" {
		fields = append(fields, util.FieldError{Field: "firstName", Message: "is required"})
	}
	if strings.TrimSpace(p.LastName) == "" {
		fields = append(fields, util.FieldError{Field: "lastName", Message: "is required"})
	}
	if len(p.Password) < 6 {
		fields = append(fields, util.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}

	if len(fields) > 0 {
		return &util.InvalidInput{Fields: fields}
	}
	return nil
}

// Register validates the profile, checks for duplicates and creates the
// user with role "user". The pre-check is the fast path; the unique
// indexes on username and email are the authoritative signal, so a
// constraint violation from the insert maps to the same duplicate errors.
func (a *Authenticator) Register(p RegisterProfile) (*models.User, error) {
	if verr := p.validate(); verr != nil {
		return nil, verr
	}

	username := strings.TrimSpace(p.Username)
	email := util.NormalizeEmail(p.Email)

	var count int64
	if err := a.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}
	if err := a.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := a.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Role:         models.RoleUser,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// HashPassword hashes a plaintext password with the configured cost.
func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// duplicateError maps a unique-constraint violation from the store to
// the matching duplicate error, or returns nil for unrelated errors.
func duplicateError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}
