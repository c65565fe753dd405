package domain

import (
	"errors"
	"testing"
)

func TestNormalize_CanonicalizesFullURL(t *testing.T) {
	d, err := Normalize("HTTPS://WWW.Example.com:8080/path?q=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != "example.com" {
		t.Fatalf("expected example.com, got %q", d)
	}
}

func TestNormalize_ValidInputs(t *testing.T) {
	cases := map[string]Domain{
		"example.com":              "example.com",
		"  Example.COM  ":          "example.com",
		"http://sub.example.co.uk": "sub.example.co.uk",
		"www.example.com/":         "example.com",
		"example.com.":             "example.com",
		"a-b.example.org:443":      "a-b.example.org",
	}
	for in, want := range cases {
		d, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error: %v", in, err)
		}
		if d != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, d, want)
		}
	}
}

func TestNormalize_ConvertsUnicodeToPunycode(t *testing.T) {
	d, err := Normalize("münchen.de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != "xn--mnchen-3ya.de" {
		t.Fatalf("expected punycode host, got %q", d)
	}
}

func TestNormalize_RejectsInvalidInputs(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1.2.3.4",
		"localhost",
		"localhost.local",
		"nodots",
		"-bad.example.com",
		"bad-.example.com",
		"example.c",
		"example.c0m",
		"exa mple.com",
	}
	for _, in := range cases {
		_, err := Normalize(in)
		if err == nil {
			t.Fatalf("Normalize(%q): expected error", in)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Normalize(%q): expected ValidationError, got %T", in, err)
		}
	}
}

func TestNormalize_RejectsTooLong(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += "abcd."
	}
	long += "com" // 303 chars

	if _, err := Normalize(long); err == nil {
		t.Fatalf("expected error for domain longer than 253 chars")
	}
}
