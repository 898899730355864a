package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Priya8975/newsletter-service/internal/domain"
)

func TestSubscribe_PassesStructuredFailureThrough(t *testing.T) {
	var got domain.SubscribeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/newsletter-subscriptions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(domain.SubscribeResponse{Success: false, Message: "déjà inscrite"})
	}))
	defer server.Close()

	c := New(server.URL + "/")
	resp, err := c.Subscribe(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("structured failure must not be a transport error: %v", err)
	}
	if resp.Success || resp.Message != "déjà inscrite" {
		t.Errorf("response = %+v", resp)
	}
	if got.Email != "a@b.com" {
		t.Errorf("server received %q", got.Email)
	}
}

func TestSubscribe_NonJSONIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := New(server.URL).Subscribe(context.Background(), "a@b.com")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestSubscribe_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := New(server.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := c.Subscribe(context.Background(), "a@b.com")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport on timeout, got %v", err)
	}
}

func TestSubscribe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).Subscribe(context.Background(), "a@b.com")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestListSubscribers(t *testing.T) {
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		json.NewEncoder(w).Encode(domain.ListSubscribersResponse{
			Success: true,
			Data:    []domain.SubscriberSummary{{ID: "1", Email: "a@b.com", CreatedAt: created}},
			Count:   1,
		})
	}))
	defer server.Close()

	resp, err := New(server.URL).ListSubscribers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !resp.Success || resp.Count != 1 || len(resp.Data) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if !resp.Data[0].CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v, want %v", resp.Data[0].CreatedAt, created)
	}
}

func TestListSubscribers_FailureHasEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"erreur"}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).ListSubscribers(context.Background())
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.Success || resp.Message != "erreur" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty data, got %#v", resp.Data)
	}
}
