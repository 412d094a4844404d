package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitializeSendsKobo(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_x" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://checkout.test/abc","access_code":"abc","reference":"ref-1"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{SecretKey: "sk_test_x", BaseURL: server.URL})
	result, err := client.Initialize(context.Background(), InitializeRequest{
		Email:     "applicant@test.edu",
		Amount:    25000, // naira
		Reference: "ref-1",
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// 25,000 naira goes over the wire as 2,500,000 kobo.
	if amount := gotBody["amount"].(float64); amount != 2500000 {
		t.Errorf("wire amount = %v, want 2500000", amount)
	}
	if result.AuthorizationURL != "https://checkout.test/abc" {
		t.Errorf("authorization url = %s", result.AuthorizationURL)
	}
}

func TestVerifyReturnsMinorUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"data":{"status":"success","amount":2500000,"channel":"card","reference":"ref-2"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{SecretKey: "sk_test_x", BaseURL: server.URL})
	result, err := client.Verify(context.Background(), "ref-2")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Status != "success" || result.AmountMinor != 2500000 || result.Channel != "card" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestEnvelopeRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer server.Close()

	client := NewClient(Config{SecretKey: "bad", BaseURL: server.URL})
	if _, err := client.Verify(context.Background(), "ref-3"); err == nil {
		t.Fatal("expected error for rejected envelope")
	}
}

func TestHTTPErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{SecretKey: "sk_test_x", BaseURL: server.URL})
	if _, err := client.Verify(context.Background(), "ref-4"); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}
