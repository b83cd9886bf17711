package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/pkg/config"
)

type testConfig struct {
	Addr    string        `env:"ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
	Token   string        `env:"TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		var cfg *testConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("explicit environment with defaults", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"TOKEN": "t"}))
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "t", cfg.Token)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := config.Load(&cfg,
			config.WithPrefix("PRIMARY_"),
			config.WithEnvironment(map[string]string{"PRIMARY_TOKEN": "p", "PRIMARY_ADDR": ":9000"}),
		)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "p", cfg.Token)
	})

	t.Run("missing required value", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("must load panics", func(t *testing.T) {
		t.Parallel()
		var cfg testConfig
		assert.Panics(t, func() {
			config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
		})
	})
}

type cachedConfig struct {
	Name string `env:"DRIVE_CONFIG_TEST_NAME" envDefault:"first"`
}

func TestLoad_CachesByType(t *testing.T) {
	t.Setenv("DRIVE_CONFIG_TEST_NAME", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))

	t.Setenv("DRIVE_CONFIG_TEST_NAME", "second")
	var b cachedConfig
	require.NoError(t, config.Load(&b))

	assert.Equal(t, "first", b.Name)
}
