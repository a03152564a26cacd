// Package intent maps free-text patient messages to a fixed set of intents
// via ordered keyword groups. This is deliberately rule-based: the keyword
// lists and their priority order are the contract, not a statistical model.
package intent

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent is a classified message tag. Classification always yields a tag;
// unmatched text falls back to IntentFallback.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentPrice      Intent = "price"
	IntentPain       Intent = "pain"
	IntentOrtho      Intent = "ortho"
	IntentDent       Intent = "dent"
	IntentHOF        Intent = "hof"
	IntentSchedule   Intent = "agendar"
	IntentUnschedule Intent = "desagendar"
	IntentConfirm    Intent = "confirm"
	IntentDeny       Intent = "deny"
	IntentFallback   Intent = "fallback"
)

type rule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// rules are tested in order; the first match wins. "dor" must hit pain before
// anything later in the list gets a chance.
var rules = []rule{
	{IntentGreeting, regexp.MustCompile(`\b(oi|ola|bom dia|boa tarde|boa noite|tudo bem)\b`)},
	{IntentPrice, regexp.MustCompile(`\b(preco|valor|quanto|custa|orcamento)\b`)},
	{IntentPain, regexp.MustCompile(`\b(dor|doendo|inflamado|urgente|sangrando|nao aguento)\b`)},
	{IntentOrtho, regexp.MustCompile(`\b(aparelho|alinhador|invisalign|mordida|ortodont)`)},
	{IntentDent, regexp.MustCompile(`\b(clareamento|restaur|lente|limpeza|tartaro|canal|estetic)`)},
	{IntentHOF, regexp.MustCompile(`\b(botox|preenchimento|fio|harmoniza)`)},
	{IntentSchedule, regexp.MustCompile(`\b(agendar|consulta|horario|marcar|agenda|disponivel)\b`)},
	{IntentUnschedule, regexp.MustCompile(`\b(cancelar|remarcar|reagendar|desmarcar)\b`)},
	{IntentConfirm, regexp.MustCompile(`\b(sim|claro|pode|quero)\b`)},
	{IntentDeny, regexp.MustCompile(`\b(nao|depois|outra hora|agora nao)\b`)},
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds case, strips diacritics and punctuation, and collapses
// whitespace so keyword matching sees a single canonical form.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return ""
	}
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		folded = lowered
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Classify returns the intent tag for a message. Never absent: text matching
// no keyword group classifies as IntentFallback.
func Classify(text string) Intent {
	n := Normalize(text)
	for _, r := range rules {
		if r.pattern.MatchString(n) {
			return r.intent
		}
	}
	return IntentFallback
}
