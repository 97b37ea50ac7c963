// Package i18n provides locale negotiation and message-catalog lookup as a
// pipeline interceptor.
//
// A host parses nothing itself: it stores the client's raw Accept-Language
// header in the execution scope under ScopeAcceptLanguage, registers a
// TranslateInterceptor built from a Catalog, and the interceptor negotiates
// the best available locale, resolves the subject's message key, and writes
// the localized text into the subject before the chain advances.
//
//	catalog, err := i18n.LoadCatalog("messages.yaml")
//	p.Use(i18n.NewTranslateInterceptor[*Message](catalog))
//
//	scope := chain.NewScope()
//	scope.Set(i18n.ScopeAcceptLanguage, r.Header.Get("Accept-Language"))
//
// Catalog files may be stored in a legacy single-byte charset; pass
// WithCharset with the IANA label and the file is re-encoded to UTF-8 while
// loading.
package i18n
