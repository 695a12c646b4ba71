package auth

import (
	"errors"
	"testing"

	"github.com/pranavanil47/prowlerdash/internal/database"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second pooled connection would see its own empty :memory: db
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func aliceProfile() RegisterProfile {
	return RegisterProfile{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "secret1",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	a := New(newTestDB(t), bcrypt.MinCost)

	user, err := a.Register(aliceProfile())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, err := a.VerifyCredentials("alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	a := New(newTestDB(t), bcrypt.MinCost)

	p := aliceProfile()
	p.Email = "  Alice@Example.COM "
	user, err := a.Register(p)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestRegisterValidation(t *testing.T) {
	a := New(newTestDB(t), bcrypt.MinCost)

	tests := []struct {
		name   string
		mutate func(*RegisterProfile)
		field  string
	}{
		{"short username", func(p *RegisterProfile) { p.Username = "al" }, "username"},
		{"bad email", func(p *RegisterProfile) { p.Email = "not-an-email" }, "email"},
		{"empty first name", func(p *RegisterProfile) { p.FirstName = "  " }, "firstName"},
		{"empty last name", func(p *RegisterProfile) { p.LastName = "" }, "lastName"},
		{"short password", func(p *RegisterProfile) { p.Password = "12345" }, "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := aliceProfile()
			tc.mutate(&p)

			_, err := a.Register(p)
			var invalid *util.InvalidInput
			require.ErrorAs(t, err, &invalid)
			require.Len(t, invalid.Fields, 1)
			assert.Equal(t, tc.field, invalid.Fields[0].Field)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	a := New(db, bcrypt.MinCost)

	first, err := a.Register(aliceProfile())
	require.NoError(t, err)

	// same username, different email
	p := aliceProfile()
	p.Email = "alice2@example.com"
	_, err = a.Register(p)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// same email, different username
	p = aliceProfile()
	p.Username = "alice2"
	_, err = a.Register(p)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// no extra row was created and the username still resolves to the
	// original account
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := a.VerifyCredentials("alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestVerifyCredentialsFailures(t *testing.T) {
	db := newTestDB(t)
	a := New(db, bcrypt.MinCost)

	_, err := a.Register(aliceProfile())
	require.NoError(t, err)

	_, err = a.VerifyCredentials("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.VerifyCredentials("nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// a user without a stored hash can never log in
	require.NoError(t, db.Create(&models.User{
		Username:  "pending",
		Email:     "pending@example.com",
		FirstName: "P",
		LastName:  "Ending",
		Role:      models.RoleUser,
	}).Error)
	_, err = a.VerifyCredentials("pending", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDuplicateErrorMapping(t *testing.T) {
	assert.Nil(t, duplicateError(assert.AnError))
	assert.ErrorIs(t, duplicateError(errors.New("UNIQUE constraint failed: users.username")), ErrDuplicateUsername)
	assert.ErrorIs(t, duplicateError(errors.New("UNIQUE constraint failed: users.email")), ErrDuplicateEmail)
}
