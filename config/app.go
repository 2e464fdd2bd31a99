package config

import (
	"fmt"
	"time"
)

// App is the typed configuration assembled once at process start.
type App struct {
	Environment string
	LogLevel    string

	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	AcceptedOrigins []string

	Database Database
	Storage  Storage
	Auth     Auth
	Mail     Mail
	SMS      SMS
	Redis    Redis
}

type Database struct {
	DSN        string
	ReplicaDSN string
}

type Storage struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	PathStyle       bool
	RootFolder      string
}

type Auth struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	SecureCookie  bool
}

type Mail struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// Enabled reports whether SMTP credentials are present.
func (m Mail) Enabled() bool {
	return m.Username != "" && m.Password != ""
}

type SMS struct {
	AccountSID string
	AuthToken  string
	From       string
	AdminPhone string
}

func (s SMS) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.From != "" && s.AdminPhone != ""
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the environment snapshot c into an App.
func Load(c map[string]string) (App, error) {
	app := App{
		Environment: GetString(c, "APP_ENV", "development"),
		LogLevel:    GetString(c, "LOG_LEVEL", "info"),

		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 900)) * time.Second,
		IdleTimeout:  time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),

		Database: Database{
			DSN:        GetString(c, "DATABASE_URL", ""),
			ReplicaDSN: GetString(c, "DB_REPLICA_DSN", ""),
		},
		Storage: Storage{
			Bucket:          GetString(c, "S3_BUCKET", ""),
			Region:          GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:        GetString(c, "S3_ENDPOINT", ""),
			AccessKeyID:     GetString(c, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: GetString(c, "S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   GetString(c, "S3_PUBLIC_BASE_URL", ""),
			PathStyle:       GetBool(c, "S3_PATH_STYLE", false),
			RootFolder:      GetString(c, "MEDIA_ROOT_FOLDER", "portfolio"),
		},
		Auth: Auth{
			JWTSecret:     GetString(c, "JWT_SECRET", ""),
			TokenTTL:      GetDuration(c, "JWT_TTL", 7*24*time.Hour),
			AdminUsername: GetString(c, "ADMIN_USERNAME", "admin"),
			AdminPassword: GetString(c, "ADMIN_PASSWORD", ""),
		},
		Mail: Mail{
			Host:       GetString(c, "SMTP_HOST", "smtp.gmail.com"),
			Port:       GetInt(c, "SMTP_PORT", 587),
			Username:   GetString(c, "SMTP_USER", ""),
			Password:   GetString(c, "SMTP_PASS", ""),
			From:       GetString(c, "SMTP_FROM", ""),
			AdminEmail: GetString(c, "ADMIN_EMAIL", ""),
		},
		SMS: SMS{
			AccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
			From:       GetString(c, "TWILIO_FROM_NUMBER", ""),
			AdminPhone: GetString(c, "ADMIN_PHONE", ""),
		},
		Redis: Redis{
			Addr:     GetString(c, "REDIS_ADDR", ""),
			Password: GetString(c, "REDIS_PASSWORD", ""),
			DB:       GetInt(c, "REDIS_DB", 0),
		},
	}
	app.Auth.SecureCookie = GetBool(c, "SECURE_COOKIES", app.Environment == "production")

	if app.Database.DSN == "" {
		return App{}, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if app.Auth.JWTSecret == "" {
		return App{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if app.Mail.From == "" {
		app.Mail.From = app.Mail.Username
	}
	if app.Mail.AdminEmail == "" {
		app.Mail.AdminEmail = app.Mail.Username
	}
	return app, nil
}
