package provider

import (
	"path/filepath"
	"testing"

	"github.com/zrg-storefront/internal/config"
	"github.com/zrg-storefront/internal/repository"

	"github.com/spf13/viper"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("redis.enabled", false)
	v.Set("queue.enabled", false)
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	return cfg
}

func TestNewContainerMemoryDriver(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Storage.Driver = "memory"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.SnapshotRepo.(*repository.MemorySnapshotRepository); !ok {
		t.Fatalf("unexpected snapshot repo: %T", c.SnapshotRepo)
	}
	if c.SnapshotPurger != nil {
		t.Fatalf("memory repo should not be a purger")
	}
	if c.SessionService == nil || c.CatalogService == nil || c.ContentService == nil ||
		c.CheckoutService == nil || c.SSOService == nil || c.VisitorTokenService == nil {
		t.Fatalf("services not initialized: %+v", c)
	}
	if c.QueueClient == nil || c.QueueClient.Enabled() {
		t.Fatalf("queue client should exist and be disabled")
	}
}

func TestNewContainerBoltDriver(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Storage.Driver = "bolt"
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "snapshots.bolt")

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	if _, ok := c.SnapshotRepo.(*repository.BoltSnapshotRepository); !ok {
		t.Fatalf("unexpected snapshot repo: %T", c.SnapshotRepo)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close container failed: %v", err)
	}
}

func TestNewContainerRejectsUnavailableDrivers(t *testing.T) {
	cases := []string{"redis", "cassandra"}
	for _, driver := range cases {
		cfg := newTestConfig(t)
		cfg.Storage.Driver = driver
		if _, err := NewContainer(cfg); err == nil {
			t.Fatalf("driver %s should fail without backing store", driver)
		}
	}
}
