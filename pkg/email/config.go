package email

// Config holds email delivery configuration. Without Postmark tokens mail
// is written to DevDir instead of being sent.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@drive.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@drive.local"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// NewFromConfig returns a Postmark client when both tokens are set and a
// DevSender otherwise.
func NewFromConfig(cfg Config) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" && cfg.PostmarkAccountToken == "" {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkClient(cfg)
}
