package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "shop_reservation", cfg.Database.DBName)
	assert.Equal(t, 10*time.Second, cfg.Lock.LeaseTime)
	assert.Equal(t, 2*time.Second, cfg.Lock.MaxWait)
	assert.Equal(t, 100*time.Millisecond, cfg.Lock.PollInterval)
	assert.Equal(t, "0 0 * * *", cfg.Sweep.Cron)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOCK_LEASE_TIME", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SWEEP_CRON", "30 4 * * *")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Lock.LeaseTime)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "30 4 * * *", cfg.Sweep.Cron)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LOCK_MAX_WAIT", "not-a-duration")
	t.Setenv("REDIS_DB", "abc")

	cfg := Load()

	assert.Equal(t, 2*time.Second, cfg.Lock.MaxWait)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "app",
		Password: "secret", DBName: "shop_reservation", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=shop_reservation sslmode=disable",
		c.DSN(),
	)
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: "6379"}
	assert.Equal(t, "cache:6379", c.Addr())
}
