package session

import "time"

// Config holds session configuration. Session lifetime is set by the
// platform that issues them (EMBEDDED_SESSION_TTL).
type Config struct {
	CookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"appwrite-session"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
	RedisKeyPrefix  string        `env:"SESSION_REDIS_KEY_PREFIX" envDefault:"drive:session:"`
}

func DefaultConfig() Config {
	return Config{
		CookieName:      DefaultCookieName,
		CleanupInterval: 5 * time.Minute,
		RedisKeyPrefix:  "drive:session:",
	}
}
