package i18n

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// EncodingByName resolves an IANA charset label such as "ISO-8859-1" or
// "windows-1252" to its encoding.
func EncodingByName(label string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("i18n: unknown charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("i18n: charset %q has no registered codec", label)
	}
	return enc, nil
}

// DecodeText converts byte-oriented text in the given encoding into a UTF-8
// string.
func DecodeText(raw []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodeText converts a UTF-8 string into byte-oriented text in the given
// encoding.
func EncodeText(text string, enc encoding.Encoding) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, err
	}
	return out, nil
}
