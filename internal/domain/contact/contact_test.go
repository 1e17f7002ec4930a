package contact

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "ten digits gets india code", raw: "98765 43210", want: "+919876543210"},
		{name: "leading zero dropped", raw: "09876543210", want: "+919876543210"},
		{name: "twelve digits with 91", raw: "91-98765-43210", want: "+919876543210"},
		{name: "nine digits gets uae code", raw: "501234567", want: "+971501234567"},
		{name: "already uae", raw: "+971 50 123 4567", want: "+971501234567"},
		{name: "unrecognized length passes through as digits", raw: "12345", want: "12345"},
		{name: "no digits", raw: "call me", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.raw); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizePhoneIsIdempotent(t *testing.T) {
	inputs := []string{"9876543210", "501234567", "919876543210", "971501234567", "12345"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		twice := NormalizePhone(once)
		if once != twice {
			t.Fatalf("expected idempotent normalization for %q, got %q then %q", input, once, twice)
		}
	}
}

func TestNormalizePhonePtr(t *testing.T) {
	if NormalizePhonePtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	empty := "---"
	if NormalizePhonePtr(&empty) != nil {
		t.Fatalf("expected nil for digit-free input")
	}
	raw := "9876543210"
	got := NormalizePhonePtr(&raw)
	if got == nil || *got != "+919876543210" {
		t.Fatalf("expected +919876543210, got %v", got)
	}
}

func TestWhatsAppLink(t *testing.T) {
	if got := WhatsAppLink("", "hi"); got != "" {
		t.Fatalf("expected no link without phone, got %q", got)
	}
	if got := WhatsAppLink("+919876543210", ""); got != "https://wa.me/919876543210" {
		t.Fatalf("unexpected link %q", got)
	}

	got := WhatsAppLink("9876543210", "Hello, I am interested in buying Cycle. Is it available?")
	want := "https://wa.me/919876543210?text=Hello%2C%20I%20am%20interested%20in%20buying%20Cycle.%20Is%20it%20available%3F"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
