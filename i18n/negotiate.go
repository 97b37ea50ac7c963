package i18n

import "golang.org/x/text/language"

// Negotiator matches a client's language preferences against the set of
// available locales, falling back to a configured default when nothing
// matches or the preference list cannot be parsed.
type Negotiator struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

// NewNegotiator creates a negotiator over the available locales. The
// fallback wins whenever no preference matches; it is always considered
// available.
func NewNegotiator(available []language.Tag, fallback language.Tag) *Negotiator {
	supported := []language.Tag{fallback}
	for _, tag := range available {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}
	return &Negotiator{
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Fallback returns the configured default locale.
func (n *Negotiator) Fallback() language.Tag { return n.fallback }

// Negotiate picks the best available locale for an Accept-Language header.
// Empty or malformed headers resolve to the fallback; quality values order
// the preferences per RFC 9110.
func (n *Negotiator) Negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return n.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return n.fallback
	}
	_, index, confidence := n.matcher.Match(prefs...)
	if confidence == language.No {
		return n.fallback
	}
	return n.supported[index]
}
