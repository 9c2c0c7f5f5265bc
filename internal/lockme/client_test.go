package lockme

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingObserver struct {
	mu      sync.Mutex
	dead    int
	healthy int
}

func (o *recordingObserver) MarkDead(context.Context, string) {
	o.mu.Lock()
	o.dead++
	o.mu.Unlock()
}

func (o *recordingObserver) MarkHealthy(context.Context) {
	o.mu.Lock()
	o.healthy++
	o.mu.Unlock()
}

func TestFetch_Success_SendsBearerAndDecodes(t *testing.T) {
	type seen struct{ auth, path, method string }
	reqs := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- seen{r.Header.Get("Authorization"), r.URL.Path, r.Method}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"action":"add","data":{"roomid":1398,"date":"2024-06-01","hour":"18:00","name":"Anna","surname":"K","people":4}}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, "tok", time.Second, obs)
	d, err := c.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := <-reqs; got.auth != "Bearer tok" || got.path != "/message/abc123" || got.method != http.MethodGet {
		t.Fatalf("unexpected request: %+v", got)
	}
	if d.Action != "add" || d.Data.Date != "2024-06-01" || d.ClientName() != "Anna K" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if obs.healthy != 1 || obs.dead != 0 {
		t.Fatalf("observer: healthy=%d dead=%d", obs.healthy, obs.dead)
	}
}

func TestFetch_Unauthorized_NotifiesObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, "tok", time.Second, obs)
	_, err := c.Fetch(context.Background(), "x")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if obs.dead != 1 || obs.healthy != 0 {
		t.Fatalf("observer: healthy=%d dead=%d", obs.healthy, obs.dead)
	}
}

func TestFetch_BadStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/message/broken" {
			_, _ = w.Write([]byte(`{not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", time.Second, nil)
	if _, err := c.Fetch(context.Background(), "x"); !errors.Is(err, ErrBadResponse) {
		t.Fatalf("500: expected ErrBadResponse, got %v", err)
	}
	if _, err := c.Fetch(context.Background(), "broken"); !errors.Is(err, ErrBadResponse) {
		t.Fatalf("bad json: expected ErrBadResponse, got %v", err)
	}
}

func TestFetch_Unreachable_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 20*time.Millisecond, nil)
	if _, err := c.Fetch(context.Background(), "slow"); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestFetch_MissingToken(t *testing.T) {
	c := New("http://127.0.0.1:1", "", time.Second, nil)
	if _, err := c.Fetch(context.Background(), "x"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAcknowledge_PostsAndMapsErrors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	methods := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods <- r.Method
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, "tok", time.Second, obs)
	if err := c.Acknowledge(context.Background(), "id1"); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if m := <-methods; m != http.MethodPost {
		t.Fatalf("method = %s", m)
	}

	status.Store(http.StatusUnauthorized)
	if err := c.Acknowledge(context.Background(), "id1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if obs.dead != 1 {
		t.Fatalf("expected observer dead=1, got %d", obs.dead)
	}

	status.Store(http.StatusBadGateway)
	if err := c.Acknowledge(context.Background(), "id1"); !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("", "t", 0, nil)
	if c.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q", c.BaseURL)
	}
	if c.HTTP.Timeout != DefaultTimeout {
		t.Fatalf("Timeout = %v", c.HTTP.Timeout)
	}
}
