package config

import (
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "SQLITE_PATH", "READ_TIMEOUT", "NATS_URL", "NATS_SUBJECT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "airspace.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "", cfg.NATSURL)
	assert.Equal(t, "flights.created", cfg.NATSSubject)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("READ_TIMEOUT", "5")
	t.Setenv("WRITE_TIMEOUT", "not-a-number")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "oracle")

	_, err := LoadConfig()
	assert.Error(t, err)
}
