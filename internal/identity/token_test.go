package identity

import (
	"errors"
	"testing"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	token, id, err := issuer.IssueGuest()
	if err != nil {
		t.Fatalf("IssueGuest: %v", err)
	}
	if id.ID == "" || !id.Temporary {
		t.Fatalf("guest identity = %+v, want temporary with an id", id)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != id {
		t.Errorf("Verify = %+v, want %+v", got, id)
	}
}

func TestVerifyPermanentIdentity(t *testing.T) {
	issuer := NewIssuer("test-secret")

	token, err := issuer.Issue(Identity{ID: "alice@example.com", Temporary: false})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.Temporary {
		t.Error("permanent identity verified as temporary")
	}
	if got.ID != "alice@example.com" {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret-a").IssueGuest()
	if err != nil {
		t.Fatalf("IssueGuest: %v", err)
	}

	if _, err := NewIssuer("secret-b").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}
