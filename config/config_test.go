package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ecommerce", cfg.DatabaseName)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "https://translate.fedilab.app/translate", cfg.Translate.URL)
	assert.Equal(t, "ar", cfg.Translate.Target)
	assert.Equal(t, time.Second, cfg.Translate.Interval)
	assert.Equal(t, 1, cfg.Translate.Burst)
	assert.Equal(t, "gcs", cfg.ImageStore)
	assert.Equal(t, "ecommerce-dashboard", cfg.ImageFolder)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes())
}

func TestParseOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TRANSLATE_INTERVAL", "250ms")
	t.Setenv("TRANSLATE_BURST", "3")
	t.Setenv("IMAGE_STORE", "r2")
	t.Setenv("R2_BUCKET", "media")
	t.Setenv("GCS_BUCKET", "gbucket")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.Translate.Interval)
	assert.Equal(t, 3, cfg.Translate.Burst)
	assert.Equal(t, "media", cfg.R2.Bucket)
	assert.Equal(t, "gbucket", cfg.GCS.Bucket)
}

func TestParseRejectsMissingSecrets(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsUnknownImageStore(t *testing.T) {
	setRequired(t)
	t.Setenv("IMAGE_STORE", "cloudinary")

	_, err := Parse()
	assert.ErrorContains(t, err, "IMAGE_STORE")
}
