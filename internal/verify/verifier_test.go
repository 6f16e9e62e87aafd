package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTurnstileVerify(t *testing.T) {
	var gotSecret, gotResponse string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")

		ok := gotResponse == "good-token"
		_ = json.NewEncoder(w).Encode(map[string]any{"success": ok})
	}))
	defer ts.Close()

	v := NewTurnstile("site-secret", ts.URL)

	ok, err := v.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("valid token rejected")
	}
	if gotSecret != "site-secret" || gotResponse != "good-token" {
		t.Fatalf("form = %q/%q", gotSecret, gotResponse)
	}

	ok, err = v.Verify(context.Background(), "bad-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("invalid token accepted")
	}
}

func TestTurnstileVerifyUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	v := NewTurnstile("site-secret", ts.URL)
	if _, err := v.Verify(context.Background(), "token"); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestStatic(t *testing.T) {
	if ok, err := Static(true).Verify(context.Background(), "anything"); err != nil || !ok {
		t.Fatalf("Static(true) = %v, %v", ok, err)
	}
	if ok, err := Static(false).Verify(context.Background(), "anything"); err != nil || ok {
		t.Fatalf("Static(false) = %v, %v", ok, err)
	}
}
