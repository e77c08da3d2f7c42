package domain

import (
	"errors"
	"testing"
)

func TestNormalizeCardNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"12-34 56", "123456", false},
		{"1234567890123", "1234567890123", false},
		{"  98 76 54 32  ", "98765432", false},
		{"12a3", "", true},
		{"", "", true},
		{"abcdef", "", true},
		{"12345", "", true},
		{"123456", "123456", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeCardNumber(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCardNumber) {
					t.Fatalf("NormalizeCardNumber(%q) error = %v, want ErrInvalidCardNumber", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCardNumber(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCardNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func validApplication() VirtualCardApplication {
	return VirtualCardApplication{
		FirstName:  "Ivan",
		MiddleName: "Petrov",
		LastName:   "Ivanov",
		EGN:        "8001014509",
		PostCode:   "1000",
		Phone:      "0888123456",
		Email:      "ivan@example.com",
		Consent:    true,
	}
}

func TestVirtualCardApplicationValidate(t *testing.T) {
	if err := validApplication().Validate(); err != nil {
		t.Fatalf("valid application rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*VirtualCardApplication)
	}{
		{"short first name", func(a *VirtualCardApplication) { a.FirstName = "I" }},
		{"missing middle name", func(a *VirtualCardApplication) { a.MiddleName = "" }},
		{"missing last name", func(a *VirtualCardApplication) { a.LastName = " " }},
		{"short egn", func(a *VirtualCardApplication) { a.EGN = "123" }},
		{"long egn", func(a *VirtualCardApplication) { a.EGN = "12345678901" }},
		{"bad post code", func(a *VirtualCardApplication) { a.PostCode = "10" }},
		{"short phone", func(a *VirtualCardApplication) { a.Phone = "12345" }},
		{"bad email", func(a *VirtualCardApplication) { a.Email = "not-an-email" }},
		{"no consent", func(a *VirtualCardApplication) { a.Consent = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplication()
			tt.mutate(&a)
			if err := a.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}

func TestVirtualCardApplicationEGNWithSeparators(t *testing.T) {
	a := validApplication()
	a.EGN = "80 01 01 45 09"
	if err := a.Validate(); err != nil {
		t.Errorf("EGN with separators rejected: %v", err)
	}
}
