package domain

import (
	"reflect"
	"testing"
)

func TestProcess_MergesWildcardAndCaseVariants(t *testing.T) {
	raw := []RawCertificateRecord{
		{NameValue: "*.a.com\nb.com", NotBefore: "2020-01-01"},
		{NameValue: "A.COM", NotBefore: "2021-01-01", IssuerName: "X"},
	}

	got := Process(raw)

	want := []ProcessedRecord{
		{Hostname: "a.com", NotBefore: "2021-01-01", Issuer: "X"},
		{Hostname: "b.com", NotBefore: "2020-01-01"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Process mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestProcess_KeepsLatestWindowPerHost(t *testing.T) {
	raw := []RawCertificateRecord{
		{NameValue: "a.com", NotBefore: "2024-01-01", NotAfter: "2024-04-01", IssuerName: "old"},
		{NameValue: "a.com", NotBefore: "2025-01-01", NotAfter: "2025-04-01"},
		{NameValue: "a.com", NotBefore: "2023-01-01", NotAfter: "2023-04-01"},
	}

	got := Process(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].NotBefore != "2025-01-01" || got[0].NotAfter != "2025-04-01" {
		t.Fatalf("expected latest window kept, got %+v", got[0])
	}
	if got[0].Issuer != "old" {
		t.Fatalf("expected first issuer kept, got %q", got[0].Issuer)
	}
}

func TestProcess_DiscardsGarbageCandidates(t *testing.T) {
	raw := []RawCertificateRecord{
		{NameValue: "*\n\n  \nvalid.com\nwith space.com"},
	}

	got := Process(raw)
	if len(got) != 1 || got[0].Hostname != "valid.com" {
		t.Fatalf("expected only valid.com, got %+v", got)
	}
}

func TestProcess_SortsByHostnameAscending(t *testing.T) {
	raw := []RawCertificateRecord{
		{NameValue: "z.com"},
		{NameValue: "a.com"},
		{NameValue: "m.com"},
	}

	got := Process(raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"a.com", "m.com", "z.com"} {
		if got[i].Hostname != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].Hostname)
		}
	}
}

func TestProcess_EmptyInputYieldsEmptySlice(t *testing.T) {
	got := Process(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
