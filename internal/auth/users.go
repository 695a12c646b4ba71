package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfDelete guards the last-admin footgun: admins manage other
	// accounts, never remove their own.
	ErrSelfDelete = errors.New("cannot delete your own account")
)

// ListUsers returns every user, newest first.
func (a *Authenticator) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := a.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser is the admin-initiated variant of Register: same validation
// and duplicate handling, but the role may be set explicitly.
func (a *Authenticator) CreateUser(p RegisterProfile, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, &util.InvalidInput{Fields: []util.FieldError{
			{Field: "role", Message: "must be admin or user"},
		}}
	}

	user, err := a.Register(p)
	if err != nil {
		return nil, err
	}

	if role != user.Role {
		if err := a.db.Model(user).Update("role", role).Error; err != nil {
			return nil, fmt.Errorf("set role: %w", err)
		}
		user.Role = role
	}
	return user, nil
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *models.Role
}

func (u *UserUpdate) validate() *util.InvalidInput {
	var fields []util.FieldError

	if u.Username != nil && len(strings.TrimSpace(*u.Username)) < 3 {
		fields = append(fields, util.FieldError{Field: "username", Message: "must be at least 3 characters"})
	}
	if u.Email != nil {
		if err := util.ValidateEmail(util.NormalizeEmail(*u.Email)); err != nil {
			fields = append(fields, util.FieldError{Field: "email", Message: "must be a valid email address"})
		}
	}
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		fields = append(fields, util.FieldError{Field: "firstName", Message: "must not be empty"})
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) == "" {
		fields = append(fields, util.FieldError{Field: "lastName", Message: "must not be empty"})
	}
	if u.Password != nil && len(*u.Password) < 6 {
		fields = append(fields, util.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if u.Role != nil && !u.Role.Valid() {
		fields = append(fields, util.FieldError{Field: "role", Message: "must be admin or user"})
	}

	if len(fields) > 0 {
		return &util.InvalidInput{Fields: fields}
	}
	return nil
}

// UpdateUser applies a partial update. Duplicate username/email surface
// as the same errors registration uses; a missing user is ErrUserNotFound.
func (a *Authenticator) UpdateUser(id uint, upd UserUpdate) (*models.User, error) {
	if verr := upd.validate(); verr != nil {
		return nil, verr
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	updates := map[string]any{}
	if upd.Username != nil {
		updates["username"] = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		updates["email"] = util.NormalizeEmail(*upd.Email)
	}
	if upd.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*upd.LastName)
	}
	if upd.Password != nil {
		hash, err := a.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if upd.Role != nil {
		updates["role"] = *upd.Role
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := a.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a user and everything hanging off it: sessions,
// configurations and their cached assets go in the same transaction, so
// the cascade does not depend on per-connection pragma state. Deleting
// yourself is refused.
func (a *Authenticator) DeleteUser(id, actorID uint) error {
	if id == actorID {
		return ErrSelfDelete
	}

	return a.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Delete(&models.Session{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := tx.Where("configuration_id IN (?)",
			tx.Model(&models.Configuration{}).Select("id").Where("user_id = ?", id),
		).Delete(&models.Asset{}).Error; err != nil {
			return fmt.Errorf("delete assets: %w", err)
		}
		if err := tx.Delete(&models.Configuration{}, "user_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete configurations: %w", err)
		}
		return nil
	})
}
