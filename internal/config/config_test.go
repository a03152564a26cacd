package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "cadastro_agenda", cfg.SheetName)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.ConsultationDuration)
	assert.Equal(t, 5*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 10*time.Minute, cfg.ReminderTolerance)
	assert.Equal(t, []string{"17:30", "18:00", "18:30", "19:00", "19:30", "20:00"}, cfg.DailySlots)
	assert.Equal(t, "sheets", cfg.StoreBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DURACAO_CONSULTA_MIN", "45")
	t.Setenv("HORARIOS_ATENDIMENTO", "08:00, 08:45 ,09:30")
	t.Setenv("REMINDER_INTERVAL_MINUTES", "1")
	t.Setenv("LINK_AGENDAMENTO", `"https://clinica.example.com"`)
	t.Setenv("STORE_BACKEND", "Postgres")

	cfg := Load()

	assert.Equal(t, 45*time.Minute, cfg.ConsultationDuration)
	assert.Equal(t, []string{"08:00", "08:45", "09:30"}, cfg.DailySlots)
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.Equal(t, "https://clinica.example.com", cfg.BookingLink)
	assert.Equal(t, "postgres", cfg.StoreBackend)
}

func TestBookingLinkFallsBackToPublicBaseURL(t *testing.T) {
	t.Setenv("LINK_AGENDAMENTO", "")
	t.Setenv("PUBLIC_BASE_URL", "https://clinica.example.com/agendar")

	cfg := Load()

	assert.Equal(t, "https://clinica.example.com/agendar", cfg.BookingLink)

	t.Setenv("LINK_AGENDAMENTO", `"https://outra.example.com"`)
	cfg = Load()
	assert.Equal(t, "https://outra.example.com", cfg.BookingLink)
}

func TestGetEnvAsDurationBadValueFallsBack(t *testing.T) {
	t.Setenv("WHATSAPP_BRIDGE_TIMEOUT", "soon")
	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.BridgeTimeout)
}
