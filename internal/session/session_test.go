package session

import (
	"testing"
	"time"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/errors"
)

var testUser = adminuser.Public{ID: "user-1", Username: "alice", Role: adminuser.RoleAdmin}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	token, err := m.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != "user-1" || p.Username != "alice" || p.Role != adminuser.RoleAdmin {
		t.Errorf("principal = %+v, want user-1/alice/admin", p)
	}
	if !p.IsAdmin() {
		t.Error("IsAdmin() = false for admin role")
	}
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	if _, err := m.Verify(""); errors.GetServiceError(err) == nil {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager([]byte("secret-a"), time.Hour)
	verifier := NewManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification failure for wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	m.ttl = -time.Minute
	token, err := m.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	m.ttl = time.Hour

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}

func TestRevokeInvalidatesToken(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	token, err := m.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("Verify before revoke: %v", err)
	}

	m.Revoke(token)
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected verification failure after revoke")
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	token, err := m.Issue(adminuser.Public{ID: "u", Username: "x", Role: adminuser.Role("owner")})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected verification failure for unknown role")
	}
}
