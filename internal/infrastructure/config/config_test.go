package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"MP_APP_NAME":              os.Getenv("MP_APP_NAME"),
		"MP_APP_ENV":               os.Getenv("MP_APP_ENV"),
		"MP_APP_PORT":              os.Getenv("MP_APP_PORT"),
		"MP_DATABASE_HOST":         os.Getenv("MP_DATABASE_HOST"),
		"MP_DATABASE_PORT":         os.Getenv("MP_DATABASE_PORT"),
		"MP_DATABASE_USER":         os.Getenv("MP_DATABASE_USER"),
		"MP_DATABASE_PASSWORD":     os.Getenv("MP_DATABASE_PASSWORD"),
		"MP_DATABASE_DBNAME":       os.Getenv("MP_DATABASE_DBNAME"),
		"MP_DATABASE_SSLMODE":      os.Getenv("MP_DATABASE_SSLMODE"),
		"MP_JWT_SECRET":            os.Getenv("MP_JWT_SECRET"),
		"MP_KEYCLOAK_BASE_URL":     os.Getenv("MP_KEYCLOAK_BASE_URL"),
		"MP_KEYCLOAK_CLIENT_SECRET": os.Getenv("MP_KEYCLOAK_CLIENT_SECRET"),
		"MP_MAIL_SENDER":           os.Getenv("MP_MAIL_SENDER"),
		"MP_STORAGE_BUCKET":        os.Getenv("MP_STORAGE_BUCKET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "mealportal-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "mealportal", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "mealportal", cfg.Keycloak.Realm)
		assert.Equal(t, "noreply@iblinknext.com", cfg.Mail.Sender)
		assert.Equal(t, "mealportal-uploads", cfg.Storage.Bucket)
	})

	t.Run("loads values from environment variables with MP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("MP_APP_PORT", "9000")
		os.Setenv("MP_DATABASE_HOST", "testdb.local")
		os.Setenv("MP_DATABASE_PASSWORD", "testpass")
		os.Setenv("MP_KEYCLOAK_BASE_URL", "https://sso.example.com")
		os.Setenv("MP_STORAGE_BUCKET", "test-bucket")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "https://sso.example.com", cfg.Keycloak.BaseURL)
		assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	clear := func() {
		for _, k := range []string{
			"MP_APP_ENV", "MP_JWT_SECRET", "MP_DATABASE_PASSWORD",
			"MP_DATABASE_SSLMODE", "MP_KEYCLOAK_CLIENT_SECRET",
		} {
			os.Unsetenv(k)
		}
	}
	t.Cleanup(clear)

	t.Run("production requires jwt secret", func(t *testing.T) {
		clear()
		os.Setenv("MP_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production requires database password and ssl", func(t *testing.T) {
		clear()
		os.Setenv("MP_APP_ENV", "production")
		os.Setenv("MP_JWT_SECRET", "0123456789abcdef0123456789abcdef")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("complete production config passes", func(t *testing.T) {
		clear()
		os.Setenv("MP_APP_ENV", "production")
		os.Setenv("MP_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("MP_DATABASE_PASSWORD", "secret")
		os.Setenv("MP_DATABASE_SSLMODE", "require")
		os.Setenv("MP_KEYCLOAK_CLIENT_SECRET", "kc-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "mealportal",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "mealportal")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
