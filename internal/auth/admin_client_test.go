package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminClient_EnsureUser(t *testing.T) {
	users := []adminUser{{ID: "existing-id", Email: "old@example.com"}}
	var created int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "service-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(listUsersResponse{Users: users})
		case http.MethodPost:
			var req createUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			if !req.EmailConfirm {
				t.Error("seeded users should be confirmed")
			}
			created++
			u := adminUser{ID: "new-id", Email: req.Email}
			users = append(users, u)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(u)
		}
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, "service-key")
	ctx := context.Background()

	id, err := client.EnsureUser(ctx, "old@example.com", "pw")
	if err != nil || id != "existing-id" {
		t.Fatalf("EnsureUser(existing) = %q, %v", id, err)
	}

	id, err = client.EnsureUser(ctx, "new@example.com", "pw")
	if err != nil || id != "new-id" {
		t.Fatalf("EnsureUser(new) = %q, %v", id, err)
	}

	if _, err := client.EnsureUser(ctx, "new@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	if created != 1 {
		t.Errorf("created %d users, want 1", created)
	}
}

func TestAdminClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewAdminClient(srv.URL, "bad")
	if _, err := client.EnsureUser(context.Background(), "a@example.com", "pw"); err == nil {
		t.Fatal("expected error for forbidden list call")
	}
	if err := client.DeleteUserByEmail(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected error for forbidden list call")
	}
}
