package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_URI", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")

	c := FromEnv()
	assert.Equal(t, "8888", c.AppURI)
	assert.Equal(t, "SurveyHubDB", c.MongoDB)
	assert.Equal(t, "your_secret_key", c.JWTSecret)
	assert.False(t, c.IsDevelopment())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_URI", "9000")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("REDIS_URI", "localhost:6379")

	c := FromEnv()
	assert.Equal(t, "9000", c.AppURI)
	assert.Equal(t, "localhost:6379", c.RedisURI)
	assert.True(t, c.IsDevelopment())
}
