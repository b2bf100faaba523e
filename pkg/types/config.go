package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Session tokens
	SessionTokenSecret string `envconfig:"SESSION_TOKEN_SECRET"`
	SessionMaxAgeSec   int    `envconfig:"SESSION_MAX_AGE_SEC" default:"86400"` // 24 hours

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// M-Pesa Daraja
	MpesaBaseURL        string `envconfig:"MPESA_BASE_URL" default:"https://api.safaricom.co.ke"`
	MpesaConsumerKey    string `envconfig:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret string `envconfig:"MPESA_CONSUMER_SECRET"`
	MpesaShortCode      string `envconfig:"MPESA_SHORT_CODE"`
	MpesaPasskey        string `envconfig:"MPESA_PASSKEY"`
	MpesaCallbackURL    string `envconfig:"MPESA_CALLBACK_URL"`
	MpesaTimeoutSec     uint   `envconfig:"MPESA_TIMEOUT_SEC" default:"30"`

	// SMTP relay
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailSender   string `envconfig:"MAIL_SENDER"`

	// Monthly donation reminders, cron format
	ReminderSchedule string `envconfig:"REMINDER_SCHEDULE" default:"0 10 1 * *"`
}
