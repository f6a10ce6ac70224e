package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("RESERVATION_HOLD_TTL", "")
	t.Setenv("RESERVATION_OFFER_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Reservation.HoldTTL)
	assert.Equal(t, 3, cfg.Reservation.OfferSize)
	assert.Equal(t, 500, cfg.Seed.BatchSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/ghosts")
	t.Setenv("RESERVATION_HOLD_TTL", "15m")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Reservation.HoldTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL())
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver": {"STORE_DRIVER", "mysql"},
		"bad ttl":        {"RESERVATION_HOLD_TTL", "soon"},
		"negative ttl":   {"RESERVATION_HOLD_TTL", "-1h"},
		"bad redis db":   {"REDIS_DB", "zero"},
		"bad offer rps":  {"RESERVATION_OFFER_RPS", "fast"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRequestTimeout_Disabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
}
