package notify

import (
	"context"
	"fmt"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

// TextSender sends a WhatsApp text to a phone number.
// Satisfied by messaging.Channel.
type TextSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// Notifier fans out booking-lifecycle notifications to the patient and
// the dentist over WhatsApp and email. Every send is best effort: failures
// are logged and never propagated, so a broken channel can't block a booking.
type Notifier struct {
	texter       TextSender
	email        EmailSender
	dentistPhone string
	dentistEmail string
	logger       *logging.Logger
}

// NewNotifier creates a Notifier. texter and email may be nil, in which
// case the corresponding channel is skipped.
func NewNotifier(texter TextSender, email EmailSender, dentistPhone, dentistEmail string, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		texter:       texter,
		email:        email,
		dentistPhone: dentistPhone,
		dentistEmail: dentistEmail,
		logger:       logger,
	}
}

// BookingPending notifies both sides that a new appointment was created
// and is waiting for the patient's confirmation.
func (n *Notifier) BookingPending(ctx context.Context, appt appointments.Appointment) {
	patientMsg := fmt.Sprintf(
		"⚠️*PRÉ-CONFIRMAÇÃO NECESSÁRIA!*⚠️\nOlá %s, sua avaliação está AGENDADA (pré) para %s às %s. Responda *SIM* por aqui para confirmar.",
		appt.PatientName, appt.Date, appt.Time)
	n.sendText(ctx, appt.Phone, patientMsg)

	dentistMsg := fmt.Sprintf(
		"🟡 NOVO AGENDAMENTO PENDENTE\nPaciente: %s\nTelefone: %s\nData: %s\nHorário: %s",
		appt.PatientName, appt.Phone, appt.Date, appt.Time)
	n.sendText(ctx, n.dentistPhone, dentistMsg)

	n.sendEmail(ctx, appt.Email, appt.PatientName, "Pré-Confirmação de Agendamento",
		fmt.Sprintf("Olá %s, sua avaliação está agendada (pré) para %s às %s. Responda SIM pelo WhatsApp para confirmar.",
			appt.PatientName, appt.Date, appt.Time))
	n.sendEmail(ctx, n.dentistEmail, "", "Novo Agendamento Pendente", dentistMsg)
}

// BookingConfirmed notifies the dentist and emails the patient after the
// patient confirms the appointment.
func (n *Notifier) BookingConfirmed(ctx context.Context, appt appointments.Appointment) {
	dentistMsg := fmt.Sprintf(
		"🟢 AGENDAMENTO CONFIRMADO:\nPaciente: %s\nTelefone: %s\nData: %s\nHorário: %s",
		appt.PatientName, appt.Phone, appt.Date, appt.Time)
	n.sendText(ctx, n.dentistPhone, dentistMsg)
	n.sendEmail(ctx, n.dentistEmail, "", "🟢 AGENDAMENTO CONFIRMADO", dentistMsg)

	n.sendEmail(ctx, appt.Email, appt.PatientName, "✅ Confirmação de Agendamento",
		fmt.Sprintf("Seu agendamento em %s às %s foi CONFIRMADO.", appt.Date, appt.Time))
}

// BookingCancelledPending notifies the dentist that a pending appointment
// was declined before ever being confirmed.
func (n *Notifier) BookingCancelledPending(ctx context.Context, appt appointments.Appointment) {
	dentistMsg := fmt.Sprintf(
		"🔴 AGENDAMENTO CANCELADO (pendente):\nPaciente: %s\nTelefone: %s\nData: %s\nHorário: %s",
		appt.PatientName, appt.Phone, appt.Date, appt.Time)
	n.sendText(ctx, n.dentistPhone, dentistMsg)
	n.sendEmail(ctx, n.dentistEmail, "", "🔴 AGENDAMENTO CANCELADO", dentistMsg)
}

// BookingCancelled notifies the dentist that an active appointment was
// cancelled by the patient.
func (n *Notifier) BookingCancelled(ctx context.Context, appt appointments.Appointment) {
	dentistMsg := fmt.Sprintf(
		"🔴 AGENDAMENTO CANCELADO:\nPaciente: %s\nTelefone: %s\nData: %s\nHorário: %s",
		appt.PatientName, appt.Phone, appt.Date, appt.Time)
	n.sendText(ctx, n.dentistPhone, dentistMsg)
	n.sendEmail(ctx, n.dentistEmail, "", "🔴 AGENDAMENTO CANCELADO", dentistMsg)
}

// OperatorCancelled tells the patient their appointment was cancelled by
// the clinic staff.
func (n *Notifier) OperatorCancelled(ctx context.Context, appt appointments.Appointment) {
	patientMsg := fmt.Sprintf(
		"⚠️ *CANCELAMENTO EFETUADO* ⚠️\n\nOlá %s, o seu agendamento para %s às %s foi **CANCELADO** pela clínica.",
		appt.PatientName, appt.Date, appt.Time)
	n.sendText(ctx, appt.Phone, patientMsg)
}

func (n *Notifier) sendText(ctx context.Context, phone, body string) {
	if n.texter == nil || phone == "" {
		return
	}
	if err := n.texter.SendText(ctx, phone, body); err != nil {
		n.logger.Error("whatsapp notification failed", "error", err, "phone", phone)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, toName, subject, body string) {
	if n.email == nil || to == "" {
		return
	}
	err := n.email.Send(ctx, EmailMessage{To: to, ToName: toName, Subject: subject, Body: body})
	if err != nil {
		n.logger.Error("email notification failed", "error", err, "to", to)
	}
}
