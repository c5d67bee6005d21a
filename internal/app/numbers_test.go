package app

import "testing"

func TestNewAccountNumberFormat(t *testing.T) {
	got, err := NewAccountNumber()
	if err != nil {
		t.Fatalf("NewAccountNumber() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 digits, got %d (%q)", len(got), got)
	}
	for i := 0; i < len(got); i++ {
		if got[i] < '0' || got[i] > '9' {
			t.Fatalf("expected only digits, got %q", got)
		}
	}
}

func TestNewCLABEHasValidControlDigit(t *testing.T) {
	for i := 0; i < 50; i++ {
		clabe, err := NewCLABE()
		if err != nil {
			t.Fatalf("NewCLABE() error = %v", err)
		}
		if !ValidCLABE(clabe) {
			t.Fatalf("generated clabe %q fails control digit validation", clabe)
		}
	}
}

func TestValidCLABE(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		// 002010077777777771 is the worked example from the CLABE standard.
		{name: "known_valid", input: "002010077777777771", want: true},
		{name: "wrong_control_digit", input: "002010077777777770", want: false},
		{name: "too_short", input: "00201007777777777", want: false},
		{name: "non_digit", input: "00201007777777777x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCLABE(tt.input); got != tt.want {
				t.Fatalf("ValidCLABE(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
