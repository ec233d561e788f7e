package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-journal-backend/apperr"
	"go-journal-backend/auth"
	"go-journal-backend/config"
	"go-journal-backend/database"
	"go-journal-backend/logger"
	"go-journal-backend/models"
	"go-journal-backend/registration"
	"go-journal-backend/store"
)

type fixture struct {
	db     *gorm.DB
	svc    *AuthService
	tokens *auth.TokenIssuer
}

func setup(t *testing.T) fixture {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := database.Connect(config.Database{Driver: config.DriverSQLite, Path: dsn}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	users := store.NewUsers(db)
	tokens, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	svc, err := NewAuthService(users, registration.NewValidator(users, "US"), auth.NewPasswordHasher(bcrypt.MinCost), tokens, logger.Discard())
	require.NoError(t, err)

	return fixture{db: db, svc: svc, tokens: tokens}
}

func alice() registration.Input {
	return registration.Input{
		FirstName:       "Alice",
		LastName:        "Liddell",
		Email:           "alice@example.com",
		PhoneNumber:     "0123456789",
		UserType:        "student",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		StudentID:       "S1",
		Course:          "CS",
	}
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestRegisterThenLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.Equal(t, models.RoleStudent, reg.User.UserType)
	assert.NotEmpty(t, reg.Token)

	login, err := f.svc.Login(ctx, "Alice@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	userID, err := f.tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	f := setup(t)

	reg, err := f.svc.Register(context.Background(), alice())
	require.NoError(t, err)

	u, err := f.svc.Profile(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	assert.Equal(t, models.StudentProfile{StudentID: "S1", Course: "CS"}, u.Profile())
}

func TestRegisterInvalidCreatesNothing(t *testing.T) {
	f := setup(t)

	in := alice()
	in.PhoneNumber = ""
	_, err := f.svc.Register(context.Background(), in)

	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.EqualValues(t, 0, countUsers(t, f.db))
}

func TestRegisterTwiceIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	again := alice()
	again.Email = "ALICE@example.com"
	_, err = f.svc.Register(ctx, again)

	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.EqualValues(t, 1, countUsers(t, f.db))
}

func TestLoginFailuresLookAlike(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, "alice@example.com", "secret2")
	_, unknownEmail := f.svc.Login(ctx, "bob@example.com", "secret1")

	for _, err := range []error{wrongPassword, unknownEmail} {
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Equal(t, "Invalid credentials", appErr.Message)
	}
}

func TestEnsureAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cfg := config.Admin{Email: "Root@Example.com", Password: "rootpass", Code: "A-1", Department: "Administration"}

	created, err := f.svc.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	session, err := f.svc.Login(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.UserType)
}

func TestEnsureAdminDisabled(t *testing.T) {
	f := setup(t)

	created, err := f.svc.EnsureAdmin(context.Background(), config.Admin{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 0, countUsers(t, f.db))
}

func TestListUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, alice())
	require.NoError(t, err)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)
}
