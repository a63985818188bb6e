package notification

import (
	"strings"
	"testing"
)

func TestRenderVerifyEmail(t *testing.T) {
	body := RenderVerifyEmail("a@x.com", "123456")
	if !strings.Contains(body, "123456") {
		t.Fatal("rendered body missing OTP")
	}
	if !strings.Contains(body, "a@x.com") {
		t.Fatal("rendered body missing email")
	}
	if strings.Contains(body, "{{") {
		t.Fatal("unreplaced placeholder left in body")
	}
}

func TestRenderResetEmail(t *testing.T) {
	body := RenderResetEmail("a@x.com", "654321")
	if !strings.Contains(body, "654321") || !strings.Contains(body, "a@x.com") {
		t.Fatalf("rendered body incomplete: %s", body)
	}
	if strings.Contains(body, "{{") {
		t.Fatal("unreplaced placeholder left in body")
	}
}

func TestRenderWelcomeEmail(t *testing.T) {
	body := RenderWelcomeEmail("Alice", "a@x.com")
	if !strings.Contains(body, "Alice") || !strings.Contains(body, "a@x.com") {
		t.Fatalf("welcome body incomplete: %s", body)
	}
}
