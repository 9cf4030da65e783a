package utils

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"Summer Dresses":      "summer-dresses",
		"  Crème brûlée!  ":   "creme-brulee",
		"Kids & Baby / 2-4y":  "kids-baby-2-4y",
		"فساتين":              "",
		"Already-slugged-123": "already-slugged-123",
	}
	for in, want := range tests {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}

func TestPagination(t *testing.T) {
	page, limit, skip := Pagination("3", "10", 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, limit)
	assert.Equal(t, int64(20), skip)

	page, limit, skip = Pagination("", "", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, int64(0), skip)

	page, limit, _ = Pagination("-2", "5000", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)
}

func TestIsDuplicateKey(t *testing.T) {
	we := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", we)))
	assert.True(t, IsDuplicateKey(errors.New("E11000 duplicate key error collection: x")))
	assert.False(t, IsDuplicateKey(errors.New("timeout")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "secret1"))
	assert.Error(t, CheckPassword(hash, "secret2"))
}

func TestTokenIssuer(t *testing.T) {
	issuer := TokenIssuer{
		AccessSecret:  []byte("a"),
		RefreshSecret: []byte("r"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}

	access, err := issuer.GenerateAccessToken("u1", "a@b.c", "ADMIN")
	require.NoError(t, err)
	claims, err := issuer.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	r1, err := issuer.GenerateRefreshToken("u1")
	require.NoError(t, err)
	r2, err := issuer.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)

	// refresh tokens are not accepted as access tokens
	_, err = issuer.ValidateAccessToken(r1)
	assert.Error(t, err)

	expired := issuer
	expired.AccessTTL = -time.Minute
	old, err := expired.GenerateAccessToken("u1", "a@b.c", "ADMIN")
	require.NoError(t, err)
	_, err = issuer.ValidateAccessToken(old)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("x"), HashToken("x"))
	assert.NotEqual(t, HashToken("x"), HashToken("y"))
	assert.Len(t, HashToken("x"), 64)
}

// 1x1 transparent PNG
var pngPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestImageValidator(t *testing.T) {
	v := NewImageValidator(1 << 20)

	ct, err := v.Validate(pngPixel)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", v.Extension(ct))

	_, err = v.Validate([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = v.Validate(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	small := NewImageValidator(10)
	_, err = small.Validate(pngPixel)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecodeDataURL(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngPixel)

	data, err := DecodeDataURL("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, data)

	data, err = DecodeDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, pngPixel, data)

	_, err = DecodeDataURL("data:image/png," + encoded)
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = DecodeDataURL("***")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestObjectName(t *testing.T) {
	name := ObjectName("ecommerce-dashboard", ".png")
	assert.True(t, strings.HasPrefix(name, "ecommerce-dashboard/"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, ObjectName("ecommerce-dashboard", ".png"))
}

type fakeSeeder struct {
	users map[string]models.User
}

func (f *fakeSeeder) EnsureUser(_ context.Context, u *models.User) (bool, error) {
	if _, ok := f.users[u.Email]; ok {
		return false, nil
	}
	f.users[u.Email] = *u
	return true, nil
}

func TestSeedAdminUser(t *testing.T) {
	seeder := &fakeSeeder{users: map[string]models.User{}}
	ctx := context.Background()

	require.NoError(t, SeedAdminUser(ctx, seeder, " Admin@Example.com ", "pw123456", "Admin"))
	admin, ok := seeder.users["admin@example.com"]
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, CheckPassword(admin.PasswordHash, "pw123456"))

	require.NoError(t, SeedAdminUser(ctx, seeder, "admin@example.com", "other", "Admin"))
	assert.Len(t, seeder.users, 1)

	assert.Error(t, SeedAdminUser(ctx, seeder, "", "pw", "Admin"))
}
