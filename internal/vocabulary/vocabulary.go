// Package vocabulary holds the sample hamartiai and situational contexts used
// to describe characters.
package vocabulary

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry is an annotated term, e.g. "ὕβρις (arrogance / overstepping measure)".
type Entry struct {
	// Raw is the annotated form, NFC-normalised.
	Raw string

	// Term is the Greek word, including any transliteration.
	Term string

	// Gloss is the English annotation.
	Gloss string
}

func (e Entry) String() string { return e.Raw }

var hamartiai = []string{
	// Moral hamartiai (excess / deficiency of virtues)
	"θράσος (rashness)",
	"δειλία (cowardice)",
	"ἀκολασία (self-indulgence)",
	"ἀναλγησία (insensibility)",
	"ἀσωτία (prodigality)",
	"μικροπρέπεια (stinginess/pettiness)",
	"βαναυσία (vulgar extravagance)",
	"χαυνότης (vanity)",
	"μικροψυχία (smallness of soul)",
	"φιλόδοξον (over-ambition)",
	"ἀφιλότιμον (lack of ambition)",
	"ὀργιλότης (irascibility)",
	"ἀοργησία (spinelessness)",
	"ἀλαζονεία (boastfulness)",
	"εἰρωνεία (false modesty)",
	"βωμολοχία (buffoonery)",
	"ἀγροικία (boorishness)",
	"ἀρέσκειν (obsequiousness)",
	"δυσαρέσκεια (quarrelsomeness)",
	"πλεονεξία (greed, taking more than one’s share)",
	"ἔλλειψις (failure to claim justice)",

	// Intellectual hamartiai
	"ἄγνοια (ignorance)",
	"ἀκρασία (weakness of will)",
	"δεινότης (cleverness without virtue)",
	"σοφιστεία (sophistry)",

	// Tragic hamartiai (Poetics)
	"ὕβρις (arrogance / overstepping measure)",
	"ἀπορία (perplexity, paralysis in doubt)",
	"φαντασία (confusing imagination with reality)",
	"φιλαυτία (excessive self-love)",
}

var contexts = []string{
	"πόλεμος (pólemos) – war / danger",
	"ἡδονή (hēdonē) – pleasure / desire",
	"χρήματα (chrēmata) – wealth / money",
	"δαπάνη (dapánē) – expenditure / use of resources",
	"τιμή (timē) – honor / reputation",
	"ὀργή (orgē) – anger / emotional response",
	"ἀλήθεια (alētheia) – truth / honesty",
	"παίγνιον (paignion) – playfulness / humor",
	"φιλία (philia) – friendship / social bonds",
	"δικαιοσύνη (dikaiosynē) – justice / fairness",
	"ἡγεμονία (hēgemonia) – leadership / authority",
	"ἐλευθερία (eleutheria) – freedom / autonomy",
	"ἔρως (érōs) – love / desire",
}

// Hamartiai returns the failure-trait vocabulary in its canonical order.
func Hamartiai() []Entry {
	return parseAll(hamartiai)
}

// Contexts returns the situational-context vocabulary in its canonical order.
func Contexts() []Entry {
	return parseAll(contexts)
}

func parseAll(raw []string) []Entry {
	entries := make([]Entry, 0, len(raw))
	for _, s := range raw {
		entries = append(entries, Parse(s))
	}
	return entries
}

// Parse splits an annotated string into term and gloss. Two forms are
// recognised: "term (gloss)" and "term (transliteration) – gloss".
func Parse(s string) Entry {
	s = norm.NFC.String(strings.TrimSpace(s))
	e := Entry{Raw: s, Term: s}

	if term, gloss, ok := strings.Cut(s, " – "); ok {
		e.Term, e.Gloss = term, gloss
		return e
	}
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		e.Term, e.Gloss = s[:i], s[i+2:len(s)-1]
	}
	return e
}

// Search returns the entries whose term or gloss contains query, ignoring case
// and Unicode normalisation form.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(norm.NFC.String(strings.TrimSpace(query)))
	if q == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Term), q) || strings.Contains(strings.ToLower(e.Gloss), q) {
			out = append(out, e)
		}
	}
	return out
}
