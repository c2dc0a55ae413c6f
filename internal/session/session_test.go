package session

import (
	"sync"
	"testing"

	"servis32/internal/model"
)

func TestIssueAndResolve(t *testing.T) {
	reg := New()

	token, err := reg.Issue(model.Identity{Username: "admin", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(token) != tokenBytes*2 {
		t.Errorf("expected %d-char hex token, got %q", tokenBytes*2, token)
	}

	identity, ok := reg.Resolve(token)
	if !ok {
		t.Fatal("expected token to resolve")
	}
	if identity.Username != "admin" || identity.Role != model.RoleAdmin {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	reg := New()

	if _, ok := reg.Resolve("deadbeef"); ok {
		t.Error("expected unknown token not to resolve")
	}
}

func TestTokensAreUnique(t *testing.T) {
	reg := New()
	identity := model.Identity{Username: "admin", Role: model.RoleAdmin}

	seen := make(map[string]bool)
	for range 100 {
		token, err := reg.Issue(identity)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestConcurrentIssue(t *testing.T) {
	reg := New()
	identity := model.Identity{Username: "admin", Role: model.RoleAdmin}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				token, err := reg.Issue(identity)
				if err != nil {
					t.Errorf("Issue: %v", err)
					return
				}
				if _, ok := reg.Resolve(token); !ok {
					t.Error("issued token did not resolve")
					return
				}
			}
		}()
	}
	wg.Wait()
}
