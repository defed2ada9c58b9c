package utils

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestFormatGuestNames(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, "Guest"},
		{[]string{"Ana"}, "Ana"},
		{[]string{"Ana", "Ben"}, "Ana & Ben"},
		{[]string{"Ana", "Ben", "Cy"}, "Ana, Ben & Cy"},
	}
	for _, tt := range tests {
		if got := FormatGuestNames(tt.names); got != tt.want {
			t.Errorf("FormatGuestNames(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestRSVPLink(t *testing.T) {
	if got := RSVPLink("https://example.com/", "abc"); got != "https://example.com/rsvp?token=abc" {
		t.Errorf("RSVPLink() = %q", got)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(16)
	if err != nil {
		t.Fatalf("GenerateSecureToken() error = %v", err)
	}
	b, _ := GenerateSecureToken(16)
	if len(a) != 32 {
		t.Errorf("len = %d, want 32", len(a))
	}
	if a == b {
		t.Error("two tokens are equal")
	}
	if _, err := GenerateSecureToken(0); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestClientIP(t *testing.T) {
	h := http.Header{}
	if got := ClientIP(h); got != "" {
		t.Errorf("no headers: got %q", got)
	}
	h.Set("X-Real-IP", "10.0.0.2")
	if got := ClientIP(h); got != "10.0.0.2" {
		t.Errorf("real ip: got %q", got)
	}
	h.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	if got := ClientIP(h); got != "203.0.113.7" {
		t.Errorf("forwarded: got %q", got)
	}
}

func TestHashVisitor(t *testing.T) {
	a := HashVisitor("1.2.3.4", "salt")
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	if a != HashVisitor("1.2.3.4", "salt") {
		t.Error("hash is not stable")
	}
	if a == HashVisitor("1.2.3.4", "pepper") {
		t.Error("salt does not change the hash")
	}
}

func TestOptional(t *testing.T) {
	var body struct {
		Email Optional[string] `json:"email"`
		Notes Optional[string] `json:"notes"`
		Flag  Optional[bool]   `json:"flag"`
	}
	if err := json.Unmarshal([]byte(`{"email":null,"flag":true}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Email.Set || body.Email.Value != nil {
		t.Errorf("email = %+v, want explicit null", body.Email)
	}
	if body.Notes.Set {
		t.Error("notes should be absent")
	}
	if !body.Flag.Set || body.Flag.Value == nil || !*body.Flag.Value {
		t.Errorf("flag = %+v, want true", body.Flag)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(BuildMIME("Us <us@example.com>", EmailMessage{
		To:      "them@example.com",
		Subject: "Hello\r\nBcc: evil@example.com",
		Text:    "plain",
		HTML:    "<p>html</p>",
	}))
	if strings.Contains(raw, "\r\nBcc:") {
		t.Error("header injection not stripped")
	}
	for _, want := range []string{"multipart/alternative", "text/plain", "text/html", "plain", "<p>html</p>"} {
		if !strings.Contains(raw, want) {
			t.Errorf("MIME missing %q", want)
		}
	}
}

func TestInvalidFields(t *testing.T) {
	type input struct {
		Name   string `json:"name" validate:"required"`
		Status string `json:"status" validate:"omitempty,invitestatus"`
	}
	bad, err := InvalidFields(input{Status: "Nope"})
	if err != nil {
		t.Fatalf("InvalidFields() error = %v", err)
	}
	if len(bad) != 2 || bad[0] != "name" || bad[1] != "status" {
		t.Errorf("InvalidFields() = %v, want [name status]", bad)
	}
	if bad, _ := InvalidFields(input{Name: "x", Status: "Maybe"}); len(bad) != 0 {
		t.Errorf("valid input reported %v", bad)
	}
}
