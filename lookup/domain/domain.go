package domain

import (
	"net"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Domain é o hostname canônico (minúsculo, ASCII/punycode) usado como chave
// de cache e de coalescência. Só é produzido por Normalize.
type Domain string

func (d Domain) String() string { return string(d) }

const maxDomainLen = 253

// Normalize converte uma entrada bruta do usuário (pode vir com scheme,
// "www.", path, query e porta) no Domain canônico.
//
// Nenhum acesso a rede ou cache acontece antes desta etapa: entrada inválida
// vira ValidationError e encerra a requisição ali mesmo.
func Normalize(raw string) (Domain, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", &ValidationError{Reason: "empty input"}
	}

	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")

	// Corta path e porta: fica só o host.
	if i := strings.IndexByte(s, '/'); i != -1 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i != -1 {
		s = s[:i]
	}

	// "example.com." → "example.com".
	s = strings.TrimSuffix(s, ".")

	if s == "" {
		return "", &ValidationError{Reason: "empty host"}
	}

	// Entrada não-ASCII passa pelo IDNA para virar punycode.
	if !isASCII(s) {
		ascii, err := idna.Lookup.ToASCII(s)
		if err != nil {
			return "", &ValidationError{Reason: "invalid international domain"}
		}
		s = strings.ToLower(ascii)
	}

	if err := validateHost(s); err != nil {
		return "", err
	}
	return Domain(s), nil
}

func validateHost(s string) error {
	if len(s) > maxDomainLen {
		return &ValidationError{Reason: "domain too long"}
	}
	if net.ParseIP(s) != nil {
		return &ValidationError{Reason: "ip literals are not allowed"}
	}
	if s == "localhost" || strings.HasPrefix(s, "localhost.") {
		return &ValidationError{Reason: "localhost is not allowed"}
	}

	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return &ValidationError{Reason: "missing top-level domain"}
	}
	for _, label := range labels {
		if !validLabel(label) {
			return &ValidationError{Reason: "invalid label: " + label}
		}
	}

	// O último label (TLD) precisa ser alfabético com pelo menos 2 caracteres.
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return &ValidationError{Reason: "top-level domain too short"}
	}
	for i := 0; i < len(tld); i++ {
		if tld[i] < 'a' || tld[i] > 'z' {
			return &ValidationError{Reason: "invalid top-level domain"}
		}
	}
	return nil
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
