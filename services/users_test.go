package services

import (
	"context"
	"testing"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUserCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := NewUserService(store.Users)

	u, err := svc.Create(ctx, UserInput{Name: "Sara", Email: " Sara@Example.com ", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NoError(t, utils.CheckPassword(u.PasswordHash, "secret1"))

	_, err = svc.Create(ctx, UserInput{Name: "Other", Email: "sara@example.com", Password: "secret1", Role: models.RoleUser})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "User with this email already exists", conflict.Message)

	_, err = svc.Create(ctx, UserInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: "ROOT"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	hash := u.PasswordHash
	updated, err := svc.Update(ctx, u.ID, UserInput{Name: "Sara K", Email: "sara@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, hash, updated.PasswordHash, "empty password keeps the old one")
	assert.Equal(t, models.RoleUser, updated.Role)

	updated, err = svc.Update(ctx, u.ID, UserInput{Name: "Sara K", Email: "sara@example.com", Password: "another", Role: models.RoleUser})
	require.NoError(t, err)
	assert.NoError(t, utils.CheckPassword(updated.PasswordHash, "another"))

	_, err = svc.Update(ctx, bson.NewObjectID(), UserInput{Name: "N", Email: "n@example.com", Role: models.RoleUser})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "User not found", nf.Error())
}

func TestUserEmailChangeConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(database.NewMemoryStore().Users)

	a, err := svc.Register(ctx, "A", "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, a.Role)
	_, err = svc.Register(ctx, "B", "b@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, UserInput{Name: "A", Email: "B@example.com", Role: models.RoleUser})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUserDeleteSelfForbidden(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(database.NewMemoryStore().Users)
	admin, err := svc.Create(ctx, UserInput{Name: "Admin", Email: "admin@example.com", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	other, err := svc.Register(ctx, "U", "u@example.com", "secret1")
	require.NoError(t, err)

	err = svc.Delete(ctx, admin.ID, admin.ID)
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "Cannot delete your own admin account", forbidden.Message)

	require.NoError(t, svc.Delete(ctx, admin.ID, other.ID))
	err = svc.Delete(ctx, admin.ID, other.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func newAuthFixture(t *testing.T) (*database.Store, *AuthService, *models.User) {
	t.Helper()
	store := database.NewMemoryStore()
	u, err := NewUserService(store.Users).Create(context.Background(), UserInput{
		Name: "Sara", Email: "sara@example.com", Password: "secret1", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	issuer := utils.TokenIssuer{
		AccessSecret:  []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	return store, NewAuthService(store.Users, store.RefreshTokens, issuer), u
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	store, svc, u := newAuthFixture(t)

	session, err := svc.Login(ctx, "SARA@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)

	claims, err := utils.ValidateToken(session.AccessToken, []byte("access"))
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = svc.Login(ctx, "sara@example.com", "wrong")
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorAs(t, err, &unauth)

	u.IsActive = false
	require.NoError(t, store.Users.Update(ctx, u))
	_, err = svc.Login(ctx, "sara@example.com", "secret1")
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestAuthRefreshRotates(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newAuthFixture(t)

	first, err := svc.Login(ctx, "sara@example.com", "secret1")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth, "a rotated token cannot be replayed")

	require.NoError(t, svc.Logout(ctx, second.RefreshToken))
	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.ErrorAs(t, err, &unauth)

	_, err = svc.Refresh(ctx, "")
	require.ErrorAs(t, err, &unauth)
}

func TestAuthChangePasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	_, svc, u := newAuthFixture(t)

	session, err := svc.Login(ctx, "sara@example.com", "secret1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "bad", "secret2")
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "secret1", "secret2"))
	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorAs(t, err, &unauth)

	_, err = svc.Login(ctx, "sara@example.com", "secret2")
	assert.NoError(t, err)
}
