package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache     sync.Map // reflect.Type -> value
	dotenvRan sync.Once
)

// Option tweaks a single Load call.
type Option func(*env.Options)

// WithPrefix prepends prefix to every env key of the struct, for loading two
// instances of one Config type (e.g. two Postgres pools).
// Prefixed loads bypass the type cache.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment parses from the given map instead of the process
// environment. Mostly useful in tests; bypasses the type cache.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) { o.Environment = vars }
}

// Load fills v from the environment. The first call reads .env from the
// working directory if present. Results of plain loads are cached by type.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvRan.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})

	if len(opts) > 0 {
		var o env.Options
		for _, opt := range opts {
			opt(&o)
		}
		if err := env.ParseWithOptions(v, o); err != nil {
			return errors.Join(ErrParsingConfig, err)
		}
		return nil
	}

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	actual, _ := cache.LoadOrStore(key, *v)
	*v = actual.(T)
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
