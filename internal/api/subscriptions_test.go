package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/Priya8975/newsletter-service/internal/newsletter"
	"github.com/Priya8975/newsletter-service/internal/store"
)

type fakeStore struct {
	mu     sync.Mutex
	rows   map[string]*domain.Subscriber
	clock  time.Time
	writes int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:  make(map[string]*domain.Subscriber),
		clock: time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) GetSubscriberByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if sub, ok := f.rows[email]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateSubscriber(_ context.Context, email string) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.rows[email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	f.clock = f.clock.Add(time.Hour)
	sub := &domain.Subscriber{
		ID:        fmt.Sprintf("id-%d", len(f.rows)+1),
		Email:     email,
		IsActive:  true,
		CreatedAt: f.clock,
		UpdatedAt: f.clock,
	}
	f.rows[email] = sub
	f.writes++
	cp := *sub
	return &cp, nil
}

func (f *fakeStore) setActive(email string, active bool) (*domain.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.rows[email]
	if !ok || sub.IsActive == active {
		return nil, nil
	}
	sub.IsActive = active
	f.writes++
	cp := *sub
	return &cp, nil
}

func (f *fakeStore) ReactivateSubscriber(_ context.Context, email string) (*domain.Subscriber, error) {
	return f.setActive(email, true)
}

func (f *fakeStore) DeactivateSubscriber(_ context.Context, email string) (*domain.Subscriber, error) {
	return f.setActive(email, false)
}

func (f *fakeStore) ListActiveSubscribers(_ context.Context) ([]domain.SubscriberSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.SubscriberSummary{}
	for _, sub := range f.rows {
		if sub.IsActive {
			out = append(out, sub.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetSubscriberMetrics(context.Context) (*store.SubscriberMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	m := &store.SubscriberMetrics{TotalSubscribers: len(f.rows)}
	for _, sub := range f.rows {
		if sub.IsActive {
			m.ActiveSubscribers++
		}
	}
	m.InactiveSubscribers = m.TotalSubscribers - m.ActiveSubscribers
	return m, nil
}

func setupTestRouter(t *testing.T) (http.Handler, *fakeStore, *newsletter.Service) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	fs := newFakeStore()
	svc := newsletter.NewService(fs, logger)
	return NewRouter(svc, fs, nil, logger), fs, svc
}

func postSubscribe(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, domain.SubscribeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/newsletter-subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp domain.SubscribeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, resp
}

func getList(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, domain.ListSubscribersResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/newsletter-subscriptions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp domain.ListSubscribersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, resp
}

func TestCreate_InvalidEmail(t *testing.T) {
	h, fs, _ := setupTestRouter(t)

	rec, resp := postSubscribe(t, h, `{"email":"not-an-email"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if resp.Message != newsletter.MsgInvalidEmail {
		t.Errorf("message = %q, want %q", resp.Message, newsletter.MsgInvalidEmail)
	}
	if fs.writes != 0 {
		t.Errorf("expected no store mutation, got %d writes", fs.writes)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	h, fs, _ := setupTestRouter(t)

	for _, body := range []string{``, `{`, `[1,2]`, `{"email": 42}`} {
		rec, resp := postSubscribe(t, h, body)
		if rec.Code != http.StatusBadRequest || resp.Success {
			t.Errorf("body %q: status = %d success = %v, want 400 false", body, rec.Code, resp.Success)
		}
	}
	if fs.writes != 0 {
		t.Errorf("expected no store mutation, got %d writes", fs.writes)
	}
}

func TestCreate_ThenDuplicate_ThenList(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	rec, resp := postSubscribe(t, h, `{"email":"a@b.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if !resp.Success || resp.Message != newsletter.MsgCreated {
		t.Errorf("first response = %+v", resp)
	}

	rec, resp = postSubscribe(t, h, `{"email":"a@b.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.Success || resp.Message != newsletter.MsgAlreadySubscribed {
		t.Errorf("second response = %+v", resp)
	}

	rec, list := getList(t, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !list.Success || list.Count != 1 || len(list.Data) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list.Data[0].Email != "a@b.com" {
		t.Errorf("email = %q, want a@b.com", list.Data[0].Email)
	}
}

func TestCreate_ReactivationReturns200(t *testing.T) {
	h, _, svc := setupTestRouter(t)
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "a@b.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Unsubscribe(ctx, "a@b.com"); err != nil {
		t.Fatal(err)
	}

	rec, resp := postSubscribe(t, h, `{"email":"a@b.com"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !resp.Success || resp.Message != newsletter.MsgReactivated {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreate_StoreFailureHidesCause(t *testing.T) {
	h, fs, _ := setupTestRouter(t)
	fs.err = errors.New("pq: password authentication failed for user \"newsletter\"")

	rec, resp := postSubscribe(t, h, `{"email":"a@b.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if resp.Success || resp.Message != newsletter.MsgInternal {
		t.Errorf("response = %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("store error text leaked into the response")
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/newsletter-subscriptions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"data":[]`) || !strings.Contains(body, `"count":0`) {
		t.Errorf("expected empty data array and zero count, got %s", body)
	}
}

func TestList_OrderAndProjection(t *testing.T) {
	h, _, svc := setupTestRouter(t)
	ctx := context.Background()

	for _, email := range []string{"old@b.com", "gone@b.com", "new@b.com"} {
		if _, err := svc.Subscribe(ctx, email); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Unsubscribe(ctx, "gone@b.com"); err != nil {
		t.Fatal(err)
	}

	rec, list := getList(t, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if list.Count != 2 || len(list.Data) != 2 {
		t.Fatalf("expected 2 entries, got %+v", list)
	}
	if list.Data[0].Email != "new@b.com" || list.Data[1].Email != "old@b.com" {
		t.Errorf("unexpected order: %+v", list.Data)
	}
	if strings.Contains(rec.Body.String(), "isActive") {
		t.Error("activity flag must not be exposed by the listing")
	}
}

func TestList_StoreFailure(t *testing.T) {
	h, fs, _ := setupTestRouter(t)
	fs.err = errors.New("boom")

	rec, list := getList(t, h)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if list.Success || list.Message != newsletter.MsgListInternal {
		t.Errorf("response = %+v", list)
	}
	if len(list.Data) != 0 {
		t.Errorf("no partial results expected, got %+v", list.Data)
	}
}

func TestMetrics(t *testing.T) {
	h, _, svc := setupTestRouter(t)
	ctx := context.Background()

	svc.Subscribe(ctx, "a@b.com")
	svc.Subscribe(ctx, "c@d.com")
	svc.Unsubscribe(ctx, "c@d.com")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var m store.SubscriberMetrics
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.TotalSubscribers != 2 || m.ActiveSubscribers != 1 || m.InactiveSubscribers != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestHealthAndPing(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	for _, path := range []string{"/health", "/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/newsletter-subscriptions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
