package appwrite

import "time"

type Config struct {
	Endpoint  string        `env:"APPWRITE_ENDPOINT" envDefault:"https://cloud.appwrite.io/v1"`
	ProjectID string        `env:"APPWRITE_PROJECT_ID"`
	APIKey    string        `env:"APPWRITE_API_KEY"`
	Timeout   time.Duration `env:"APPWRITE_TIMEOUT" envDefault:"10s"`
}
