package carousel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

type stubSource struct {
	mu    sync.Mutex
	list  []models.Slide
	err   error
	calls int
}

func (s *stubSource) FetchSlides(context.Context) ([]models.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.list, s.err
}

func (s *stubSource) set(list []models.Slide, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list, s.err = list, err
}

func startRefresher(t *testing.T, src *stubSource) (*Refresher, *Controller, *recorder, context.CancelFunc) {
	t.Helper()
	ctrl, rec := newController(false)
	r := NewRefresher(src, ctrl, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deadline := time.Now().Add(time.Second)
	for ctrl.Snapshot().State == Idle && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return r, ctrl, rec, cancel
}

func TestRefreshDetectsLengthChange(t *testing.T) {
	src := &stubSource{list: []models.Slide{{Title: "A"}, {Title: "B"}}}
	r, ctrl, rec, _ := startRefresher(t, src)
	rec.take()

	src.set([]models.Slide{{Title: "A"}, {Title: "B"}, {Title: "C"}}, nil)
	changed, err := r.Refresh(context.Background())
	if err != nil || !changed {
		t.Fatalf("Refresh = %v, %v; want change", changed, err)
	}
	if ctrl.Snapshot().Count != 3 {
		t.Errorf("count = %d", ctrl.Snapshot().Count)
	}
	if calls := rec.take(); len(calls) == 0 || calls[0] != "indicators 3" {
		t.Errorf("calls = %v", calls)
	}
}

func TestRefreshIgnoresNonTitleChanges(t *testing.T) {
	src := &stubSource{list: []models.Slide{{Title: "A"}}}
	r, _, rec, _ := startRefresher(t, src)
	rec.take()

	src.set([]models.Slide{{Title: "A", Subtitle: "X"}}, nil)
	changed, err := r.Refresh(context.Background())
	if err != nil || changed {
		t.Fatalf("Refresh = %v, %v; want no change", changed, err)
	}
	if calls := rec.take(); len(calls) != 0 {
		t.Errorf("re-rendered on subtitle change: %v", calls)
	}
}

func TestRefreshRestoresIndexOrResets(t *testing.T) {
	src := &stubSource{list: makeSlides(4)}
	r, ctrl, _, _ := startRefresher(t, src)

	ctrl.Goto(2)
	src.set([]models.Slide{{Title: "x"}, {Title: "y"}, {Title: "z"}}, nil)
	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.Snapshot().Index; got != 2 {
		t.Errorf("index = %d, want 2 restored", got)
	}

	src.set([]models.Slide{{Title: "only"}}, nil)
	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.Snapshot().Index; got != 0 {
		t.Errorf("index = %d, want 0 after shrink", got)
	}
}

func TestRefreshFailureKeepsState(t *testing.T) {
	src := &stubSource{list: makeSlides(2)}
	r, ctrl, rec, _ := startRefresher(t, src)
	rec.take()

	src.set(nil, errors.New("connection refused"))
	changed, err := r.Refresh(context.Background())
	if err == nil || changed {
		t.Fatalf("Refresh = %v, %v", changed, err)
	}
	if ctrl.Snapshot().Count != 2 {
		t.Error("failed refresh replaced the slides")
	}
	if rec.err != nil || len(rec.take()) != 0 {
		t.Error("refresh failure reached the surface")
	}
}

func TestStartFailsVisibly(t *testing.T) {
	ctrl, rec := newController(false)
	src := &stubSource{err: errors.New("404")}

	err := NewRefresher(src, ctrl, time.Hour).Start(context.Background())
	if !errors.Is(err, ErrLoadFailure) {
		t.Fatalf("Start = %v, want ErrLoadFailure", err)
	}
	if rec.err == nil {
		t.Error("error state not shown")
	}
	if ctrl.Snapshot().State != Idle {
		t.Error("carousel left idle after failed load")
	}
}

func TestHTTPSourceBustsCache(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query().Get("t"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"type":"product","title":"X","image":"i.jpg"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/api/slides", srv.Client())
	tick := time.Unix(1700000000, 0)
	src.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for i := 0; i < 2; i++ {
		list, err := src.FetchSlides(context.Background())
		if err != nil {
			t.Fatalf("FetchSlides: %v", err)
		}
		if len(list) != 1 || list[0].Image != "i.jpg" {
			t.Fatalf("list = %+v", list)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] == "" || seen[0] == seen[1] {
		t.Errorf("cache-busting params = %v", seen)
	}
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL, srv.Client()).FetchSlides(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestHTTPSourceSkipsMistypedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"type":"online","title":"Shop","qr":"yes","url":"shop.nl"},{"title":"B"}]`))
	}))
	defer srv.Close()

	list, err := NewHTTPSource(srv.URL, srv.Client()).FetchSlides(context.Background())
	if err != nil {
		t.Fatalf("FetchSlides: %v", err)
	}
	if len(list) != 2 || list[0].URL != "shop.nl" || list[0].QR || list[1].Title != "B" {
		t.Errorf("list = %+v", list)
	}
}
