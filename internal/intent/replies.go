package intent

import "strings"

// Responder produces the canned reply for each intent, with a scheduling
// call-to-action pointing at the clinic's booking page.
type Responder struct {
	bookingLink string
}

// NewResponder creates a responder. bookingLink is the public site base URL;
// empty is allowed and yields a relative booking path.
func NewResponder(bookingLink string) *Responder {
	return &Responder{bookingLink: strings.TrimSpace(bookingLink)}
}

// BookingPageURL returns the absolute (or relative, when no base link is
// configured) URL of the booking page.
func (r *Responder) BookingPageURL() string {
	base := r.bookingLink
	if base == "" {
		return "/agendamento.html"
	}
	if strings.HasSuffix(base, "/") {
		return base + "agendamento.html"
	}
	return base + "/agendamento.html"
}

func (r *Responder) cta() string {
	return "\n\n🟩 *AGENDAR AGORA*\n👉 " + r.BookingPageURL()
}

// Reply returns the canned response for the given intent.
func (r *Responder) Reply(it Intent) string {
	cta := r.cta()
	switch it {
	case IntentGreeting:
		return "Olá 👋! Sou a assistente virtual da Dra. Marcella. Como posso te ajudar hoje?"
	case IntentPrice:
		return "Entendo sua dúvida sobre valores. Como cada tratamento é personalizado, a Dra. Marcella só passa orçamento após avaliação presencial. " + cta
	case IntentPain:
		return "Sinto muito que esteja sentindo dor. 😔 Casos com dor são priorizados — a melhor forma de resolver com segurança é uma avaliação. " + cta
	case IntentOrtho:
		return "Para indicar aparelho ou alinhadores a Dra. Marcella precisa avaliar sua mordida e posição dos dentes presencialmente. Quer agendar uma avaliação? " + cta
	case IntentDent:
		return "Procedimentos estéticos (clareamento, lentes, restaurações) exigem avaliação para garantir segurança e resultado natural. Agende sua avaliação: " + cta
	case IntentHOF:
		return "Harmonização orofacial deve ser planejada após análise das proporções faciais — a avaliação é o primeiro passo. " + cta
	case IntentSchedule:
		return "Perfeito — podemos marcar sua avaliação agora. Toque no link abaixo para escolher o melhor horário: " + cta
	case IntentUnschedule:
		return "Tudo bem — você pode cancelar ou reagendar facilmente. Use o link abaixo para acessar a agenda e escolher outro horário: " + cta
	case IntentConfirm:
		return "Ótimo! Vou deixar o link para você agendar agora: " + cta
	case IntentDeny:
		return "Sem problemas — se preferir, posso te ajudar com outras dúvidas ou deixar o link para agendar mais tarde: " + cta
	default:
		return "Posso te ajudar melhor pessoalmente com a avaliação da Dra. Marcella. Para agendar é só tocar no link abaixo: " + cta
	}
}
