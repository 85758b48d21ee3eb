package domain

import (
	"errors"
	"testing"
)

func TestParseService(t *testing.T) {
	cases := map[string]ServiceType{
		"Termite Treatment":    ServiceTermiteTreatment,
		" rodent control ":     ServiceRodentControl,
		"GENERAL PEST CONTROL": ServiceGeneralPestControl,
		"other":                ServiceOther,
	}
	for in, want := range cases {
		got, err := ParseService(in)
		if err != nil {
			t.Fatalf("ParseService(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseService(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseService("Bed Bugs"); !errors.Is(err, ErrInvalidService) {
		t.Fatalf("expected ErrInvalidService, got %v", err)
	}
	if len(Services) != 7 {
		t.Fatalf("expected 7 services, got %d", len(Services))
	}
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("bank transfer")
	if err != nil {
		t.Fatalf("ParsePaymentMethod: %v", err)
	}
	if got != PaymentBankTransfer {
		t.Fatalf("expected %q, got %q", PaymentBankTransfer, got)
	}
	if _, err := ParsePaymentMethod("Cheque"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}
