package services_test

import (
	"testing"

	"tvicladmin/internal/repos"
	"tvicladmin/internal/services"
)

func TestLoginAndSessionFlow(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	// Seeded operator account
	u, err := svc.Login("sid-1", "agent@tvicl.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "USER" {
		t.Fatalf("want USER role, got %s", u.Role)
	}

	got, err := svc.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("session resolves to wrong user: %s", got.ID)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := svc.Login("sid-1", "agent@tvicl.test", "wrong"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-1", "ghost@tvicl.test", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
}
