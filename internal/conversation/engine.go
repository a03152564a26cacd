package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/internal/calendar"
	"github.com/vitorfarias/agendabot/internal/intent"
	"github.com/vitorfarias/agendabot/internal/notify"
	"github.com/vitorfarias/agendabot/internal/observability/metrics"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

var engineTracer = otel.Tracer("agendabot/conversation")

var affirmativeTokens = map[string]bool{
	"sim": true, "s": true, "claro": true, "pode": true, "confirmo": true,
}

var negativeTokens = map[string]bool{
	"nao": true, "não": true, "n": true, "depois": true,
	"cancelar": true, "cancela": true, "agora não": true, "agora nao": true,
}

// Engine drives the per-message conversation flow. Rules are evaluated in a
// fixed priority order; the first one that fires produces the reply and the
// turn ends there.
type Engine struct {
	store     appointments.Store
	states    StateStore
	calendar  calendar.Gateway
	notifier  *notify.Notifier
	responder *intent.Responder
	locks     *keyedMutex
	logger    *logging.Logger
}

// NewEngine creates a conversation engine.
func NewEngine(store appointments.Store, states StateStore, cal calendar.Gateway, notifier *notify.Notifier, responder *intent.Responder, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:     store,
		states:    states,
		calendar:  cal,
		notifier:  notifier,
		responder: responder,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

// HandleMessage processes one inbound private message and returns the reply
// to send back, or "" when no reply applies. phone must already be in
// canonical form. Messages from the same phone are serialized so a
// read-decide-write cycle can't interleave with itself.
func (e *Engine) HandleMessage(ctx context.Context, phone, body string) string {
	ctx, span := engineTracer.Start(ctx, "conversation.HandleMessage",
		trace.WithAttributes(attribute.String("phone", phone)))
	defer span.End()

	unlock := e.locks.lock(phone)
	defer unlock()

	state, err := e.states.Get(ctx, phone)
	if err != nil {
		e.logger.Error("conversation state read failed", "error", err, "phone", phone)
		state = StateIdle
	}

	trimmed := strings.ToLower(strings.TrimSpace(body))
	isAff := affirmativeTokens[trimmed]
	isNeg := negativeTokens[trimmed]
	wantsCancel := strings.Contains(strings.ToLower(body), "cancelar")

	// 1) A pending appointment eats the next yes/no regardless of state.
	pending, err := appointments.FindPending(ctx, e.store, phone)
	if err != nil {
		e.logger.Error("pending lookup failed", "error", err, "phone", phone)
	}
	if pending != nil {
		if isAff {
			return e.confirmPending(ctx, phone, pending)
		}
		if isNeg {
			return e.declinePending(ctx, phone, pending)
		}
	}

	// 2) Answer to the "deseja CANCELAR?" question.
	if state == StateAwaitingCancelConfirmation {
		if reply, handled := e.handleCancelConfirmation(ctx, phone, isAff, isNeg); handled {
			return reply
		}
	}

	// 3) Explicit cancel request opens the confirmation dialog.
	if wantsCancel {
		return e.startCancel(ctx, phone)
	}

	// 4) Answer to the booking-link offer.
	if state == StateAwaitingLink {
		if isAff {
			e.setState(ctx, phone, StateIdle)
			return fmt.Sprintf("Ótimo! Aqui está o link para agilizar seu agendamento online:\n%s", e.responder.BookingPageURL())
		}
		if isNeg {
			e.setState(ctx, phone, StateIdle)
			return "Entendi. Posso ajudar em outra coisa?"
		}
	}

	// 5) A bare yes/no with nothing pending gets the link offer.
	if isAff || isNeg {
		e.setState(ctx, phone, StateAwaitingLink)
		return "Não entendi exatamente. Posso te ajudar a agendar uma avaliação? Responda SIM para receber o link."
	}

	// 6) Classified intent reply. Any non-greeting reply ends with the link
	// offer armed, so a following "sim" resolves.
	it := intent.Classify(body)
	span.SetAttributes(attribute.String("intent", string(it)))
	metrics.InboundMessages.WithLabelValues(string(it)).Inc()
	if it == intent.IntentGreeting {
		e.setState(ctx, phone, StateIdle)
	} else {
		e.setState(ctx, phone, StateAwaitingLink)
	}
	return e.responder.Reply(it)
}

// confirmPending flips the pending row to Confirmado. The calendar event is
// created best effort: the booking stands even when the calendar is down.
func (e *Engine) confirmPending(ctx context.Context, phone string, appt *appointments.Appointment) string {
	eventID, err := e.calendar.CreateEvent(ctx, calendar.EventParams{
		PatientName: appt.PatientName,
		Phone:       appt.Phone,
		Date:        appt.Date,
		Time:        appt.Time,
		Status:      appointments.StatusConfirmed,
	})
	if err != nil {
		e.logger.Error("calendar event creation failed", "error", err, "appointment_id", appt.ID)
	} else if eventID != "" {
		if err := e.store.SetCalendarEventID(ctx, appt.ID, eventID); err != nil {
			e.logger.Error("calendar event id write failed", "error", err, "appointment_id", appt.ID)
		} else {
			appt.CalendarEventID = eventID
		}
	}

	if err := e.store.SetStatus(ctx, appt.ID, appointments.StatusConfirmed); err != nil {
		e.logger.Error("status update failed", "error", err, "appointment_id", appt.ID)
		return "❌ Ocorreu um erro ao confirmar seu agendamento. Tente novamente mais tarde."
	}
	appt.Status = appointments.StatusConfirmed

	e.notifier.BookingConfirmed(ctx, *appt)
	metrics.Bookings.WithLabelValues(metrics.OutcomeConfirmed).Inc()
	e.setState(ctx, phone, StateIdle)
	return fmt.Sprintf("🎉 *AGENDAMENTO CONFIRMADO!* 🎉\n\nQue ótimo, %s! Seu horário para *%s* às *%s* está CONFIRMADO na agenda da Dra. Marcella.",
		appt.PatientName, appt.Date, appt.Time)
}

func (e *Engine) declinePending(ctx context.Context, phone string, appt *appointments.Appointment) string {
	if err := e.store.SetStatus(ctx, appt.ID, appointments.StatusCancelled); err != nil {
		e.logger.Error("status update failed", "error", err, "appointment_id", appt.ID)
	}
	appt.Status = appointments.StatusCancelled

	e.notifier.BookingCancelledPending(ctx, *appt)
	metrics.Bookings.WithLabelValues(metrics.OutcomeCancelledPending).Inc()
	e.setState(ctx, phone, StateIdle)
	return fmt.Sprintf("Ok %s, seu agendamento em %s às %s foi CANCELADO.", appt.PatientName, appt.Date, appt.Time)
}

// handleCancelConfirmation resolves the pending cancel question. Returns
// handled=false when the answer is neither yes nor no, letting the message
// fall through to the later rules.
func (e *Engine) handleCancelConfirmation(ctx context.Context, phone string, isAff, isNeg bool) (string, bool) {
	active, err := appointments.FindActive(ctx, e.store, phone)
	if err != nil {
		e.logger.Error("active lookup failed", "error", err, "phone", phone)
	}

	if active != nil && isAff {
		if err := e.store.SetStatus(ctx, active.ID, appointments.StatusCancelled); err != nil {
			e.logger.Error("status update failed", "error", err, "appointment_id", active.ID)
			e.setState(ctx, phone, StateIdle)
			return "❌ Falha no cancelamento. Tente novamente mais tarde.", true
		}
		active.Status = appointments.StatusCancelled

		if active.CalendarEventID != "" {
			if err := e.calendar.DeleteEvent(ctx, active.CalendarEventID); err != nil {
				e.logger.Error("calendar event deletion failed", "error", err, "event_id", active.CalendarEventID)
			} else if err := e.store.SetCalendarEventID(ctx, active.ID, ""); err != nil {
				e.logger.Error("calendar event id clear failed", "error", err, "appointment_id", active.ID)
			}
		}

		e.notifier.BookingCancelled(ctx, *active)
		metrics.Bookings.WithLabelValues(metrics.OutcomeCancelled).Inc()
		e.setState(ctx, phone, StateIdle)
		return fmt.Sprintf("✅ Seu agendamento em %s às %s foi CANCELADO com sucesso. Para reagendar, envie AGENDAR.",
			active.Date, active.Time), true
	}

	if isNeg {
		e.setState(ctx, phone, StateIdle)
		return "Cancelamento abortado. Em que mais posso ajudar?", true
	}

	return "", false
}

func (e *Engine) startCancel(ctx context.Context, phone string) string {
	active, err := appointments.FindActive(ctx, e.store, phone)
	if err != nil {
		e.logger.Error("active lookup failed", "error", err, "phone", phone)
	}
	if active != nil {
		e.setState(ctx, phone, StateAwaitingCancelConfirmation)
		return fmt.Sprintf("Você tem um agendamento ATIVO para **%s** às **%s**. Você deseja **CANCELAR** este agendamento? Responda **SIM** para confirmar.",
			active.Date, active.Time)
	}
	e.setState(ctx, phone, StateIdle)
	return "Não encontrei agendamentos ativos vinculados a este número."
}

func (e *Engine) setState(ctx context.Context, phone string, state State) {
	if err := e.states.Set(ctx, phone, state); err != nil {
		e.logger.Error("conversation state write failed", "error", err, "phone", phone)
	}
}
