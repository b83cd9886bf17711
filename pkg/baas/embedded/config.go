package embedded

import "time"

type Config struct {
	// Secret keys the passcode HMAC; at least 32 characters.
	Secret      string        `env:"EMBEDDED_OTP_SECRET"`
	CodeLength  int           `env:"EMBEDDED_OTP_LENGTH" envDefault:"6"`
	CodeTTL     time.Duration `env:"EMBEDDED_OTP_TTL" envDefault:"15m"`
	MaxAttempts int           `env:"EMBEDDED_OTP_MAX_ATTEMPTS" envDefault:"5"`
	RateLimit   int           `env:"EMBEDDED_OTP_RATE_LIMIT" envDefault:"5"` // passcodes per email per window
	RateWindow  time.Duration `env:"EMBEDDED_OTP_RATE_WINDOW" envDefault:"15m"`
	SessionTTL  time.Duration `env:"EMBEDDED_SESSION_TTL" envDefault:"8760h"`

	DocumentStore  string `env:"EMBEDDED_DOCUMENT_STORE" envDefault:"memory"`  // memory, postgres or mongo
	ChallengeStore string `env:"EMBEDDED_CHALLENGE_STORE" envDefault:"memory"` // memory or redis
	SessionStore   string `env:"EMBEDDED_SESSION_STORE" envDefault:"memory"`   // memory or redis
}

func DefaultConfig() Config {
	return Config{
		CodeLength:     6,
		CodeTTL:        15 * time.Minute,
		MaxAttempts:    5,
		RateLimit:      5,
		RateWindow:     15 * time.Minute,
		SessionTTL:     365 * 24 * time.Hour,
		DocumentStore:  "memory",
		ChallengeStore: "memory",
		SessionStore:   "memory",
	}
}
