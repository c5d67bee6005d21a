package customerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCustomerExistsByEmail(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantExists bool
	}{
		{name: "match found", response: `[{"id":"c1","email":"a@b.mx"}]`, wantExists: true},
		{name: "no match", response: `[]`, wantExists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/customer" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				gotQuery = r.URL.Query().Get("email")
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			exists, err := client.CustomerExistsByEmail(context.Background(), "Bearer caller-token", "a@b.mx")
			if err != nil {
				t.Fatalf("CustomerExistsByEmail() error = %v", err)
			}
			if exists != tt.wantExists {
				t.Fatalf("exists = %v, want %v", exists, tt.wantExists)
			}
			if gotQuery != "a@b.mx" {
				t.Fatalf("email query = %q", gotQuery)
			}
			if gotAuth != "Bearer caller-token" {
				t.Fatalf("forwarded Authorization = %q", gotAuth)
			}
		})
	}
}

func TestCustomerExistsByPhoneNumberAddsBearerPrefix(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("phoneNumber")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	exists, err := client.CustomerExistsByPhoneNumber(context.Background(), "raw-token", "5512345678")
	if err != nil {
		t.Fatalf("CustomerExistsByPhoneNumber() error = %v", err)
	}
	if exists {
		t.Fatal("expected no match for empty collection")
	}
	if gotQuery != "5512345678" {
		t.Fatalf("phoneNumber query = %q", gotQuery)
	}
	if gotAuth != "Bearer raw-token" {
		t.Fatalf("expected Bearer prefix to be added, got %q", gotAuth)
	}
}

func TestCustomerExistsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.CustomerExistsByEmail(context.Background(), "", "a@b.mx"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestCreateCustomer(t *testing.T) {
	var gotPayload CreateCustomerRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/customer" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreatedCustomer{ID: "cust-55", Email: gotPayload.Email, PhoneNumber: gotPayload.PhoneNumber})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateCustomer(context.Background(), "Bearer tok", CreateCustomerRequest{
		Email:       "a@b.mx",
		PhoneNumber: "5512345678",
		Password:    "supersecret",
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if created.ID != "cust-55" {
		t.Fatalf("created id = %q", created.ID)
	}
	if gotPayload.Email != "a@b.mx" || gotPayload.PhoneNumber != "5512345678" || gotPayload.Password != "supersecret" {
		t.Fatalf("payload = %+v", gotPayload)
	}
}

func TestCreateCustomerRejectsMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.CreateCustomer(context.Background(), "", CreateCustomerRequest{}); err == nil {
		t.Fatal("expected error when the directory returns no id")
	}
}

func TestCreateCustomerUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.CreateCustomer(context.Background(), "", CreateCustomerRequest{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
