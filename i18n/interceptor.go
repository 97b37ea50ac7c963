package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/glimte/chainflow/chain"
)

// ScopeAcceptLanguage is the scope key under which hosts store the client's
// raw language-preference header for one execution.
const ScopeAcceptLanguage = "i18n:accept-language"

// Localizable is the subject contract for the translate interceptor.
type Localizable interface {
	// MessageKey returns the catalog key to resolve.
	MessageKey() string
	// SetLocalized receives the negotiated locale and the resolved text.
	SetLocalized(locale language.Tag, text string)
}

// TranslateInterceptor negotiates the best available locale from the
// execution scope's Accept-Language value, resolves the subject's message
// key in the catalog, and writes the localized text into the subject. It
// completes synchronously and lets the loop advance.
type TranslateInterceptor[S Localizable] struct {
	negotiator *Negotiator
	catalog    *Catalog
}

// NewTranslateInterceptor creates a translate interceptor over a catalog.
// The available-locale set and the default are taken from the catalog.
func NewTranslateInterceptor[S Localizable](catalog *Catalog) *TranslateInterceptor[S] {
	return &TranslateInterceptor[S]{
		negotiator: NewNegotiator(catalog.Locales(), catalog.Fallback()),
		catalog:    catalog,
	}
}

// Intercept implements chain.Interceptor
func (t *TranslateInterceptor[S]) Intercept(ctx context.Context, flow *chain.Flow[S]) error {
	header, _ := flow.Scope().GetString(ScopeAcceptLanguage)
	locale := t.negotiator.Negotiate(header)

	subject := flow.Subject()
	key := subject.MessageKey()
	text, ok := t.catalog.Lookup(locale, key)
	if !ok {
		return fmt.Errorf("i18n: no message for key %q in locale %s", key, locale)
	}

	subject.SetLocalized(locale, text)
	return nil
}

// Name implements chain.Interceptor
func (t *TranslateInterceptor[S]) Name() string {
	return "TranslateInterceptor"
}
