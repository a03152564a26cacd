package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Clinic
	BookingLink          string
	DentistEmail         string
	DentistPhone         string
	Timezone             string
	ConsultationDuration time.Duration
	DailySlots           []string

	// Appointment store
	StoreBackend    string // sheets | postgres | memory
	SpreadsheetID   string
	SheetName       string
	DatabaseURL     string
	GoogleCredsFile string

	// Calendar
	CalendarID string

	// WhatsApp bridge
	BridgeBaseURL  string
	BridgeAPIToken string
	BridgeTimeout  time.Duration

	// Reminders
	ReminderInterval  time.Duration
	ReminderTolerance time.Duration

	// Conversation state
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	StateTTL      time.Duration

	// Email
	EmailProvider     string // sendgrid | ses | ""
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	// AWS (SES)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "4000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BookingLink:          strings.Trim(getEnv("LINK_AGENDAMENTO", getEnv("PUBLIC_BASE_URL", "")), `"'`),
		DentistEmail:         getEnv("DENTIST_EMAIL", ""),
		DentistPhone:         getEnv("DENTIST_PHONE", ""),
		Timezone:             getEnv("TIMEZONE", "America/Sao_Paulo"),
		ConsultationDuration: time.Duration(getEnvAsInt("DURACAO_CONSULTA_MIN", 30)) * time.Minute,
		DailySlots:           getEnvAsList("HORARIOS_ATENDIMENTO", "17:30,18:00,18:30,19:00,19:30,20:00"),

		StoreBackend:    strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "sheets"))),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SheetName:       strings.TrimSpace(getEnv("SHEET_NAME", "cadastro_agenda")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		GoogleCredsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", "gcp-service-account.json"),

		CalendarID: getEnv("CALENDAR_ID", ""),

		BridgeBaseURL:  getEnv("WHATSAPP_BRIDGE_URL", ""),
		BridgeAPIToken: getEnv("WHATSAPP_BRIDGE_TOKEN", ""),
		BridgeTimeout:  getEnvAsDuration("WHATSAPP_BRIDGE_TIMEOUT", 10*time.Second),

		ReminderInterval:  time.Duration(getEnvAsInt("REMINDER_INTERVAL_MINUTES", 5)) * time.Minute,
		ReminderTolerance: time.Duration(getEnvAsInt("REMINDER_TOLERANCE_MINUTES", 10)) * time.Minute,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		StateTTL:      getEnvAsDuration("CONVERSATION_STATE_TTL", 24*time.Hour),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Agenda Dentista"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Agenda Dentista"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
