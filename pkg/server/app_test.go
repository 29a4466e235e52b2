package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"StockLens/internal/domain/models"
	xhttp "StockLens/pkg/http"
	applogger "StockLens/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

type namedCloser struct {
	name string
	rec  *recorder
}

func (c namedCloser) Close() error { c.rec.add(c.name); return nil }

type fakeEvents struct{ rec *recorder }

func (fakeEvents) PublishAnalysis(context.Context, *models.AnalysisEvent) error { return nil }
func (f fakeEvents) Close() error                                                { f.rec.add("events"); return nil }

type fakeJanitor struct{ stopped chan struct{} }

func (j fakeJanitor) Run(stop <-chan struct{}) {
	<-stop
	close(j.stopped)
}

func TestAppRunShutsDownInOrder(t *testing.T) {
	rec := &recorder{}
	l := applogger.Nop()
	srv := xhttp.NewServer(nil, l, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetrics("", nil))
	j := fakeJanitor{stopped: make(chan struct{})}

	app := New(l, srv, fakeEvents{rec: rec},
		WithJanitor(j),
		WithCloser(namedCloser{name: "logger", rec: rec}),
		WithShutdownTimeout(2*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	select {
	case <-j.stopped:
	case <-time.After(time.Second):
		t.Fatal("janitor was not stopped")
	}
	assert.Equal(t, []string{"logger", "events"}, rec.calls)
}

func TestAppRunReturnsBindError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	rec := &recorder{}
	srv := xhttp.NewServer(nil, applogger.Nop(), xhttp.WithHost("127.0.0.1"), xhttp.WithPort(port), xhttp.WithMetrics("", nil))
	app := New(applogger.Nop(), srv, fakeEvents{rec: rec})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listen")
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept waiting with nothing serving")
	}
}

func TestWithJanitorIgnoresNil(t *testing.T) {
	app := New(applogger.Nop(), nil, nil, WithJanitor(nil), WithCloser(nil))
	assert.Empty(t, app.janitors)
	assert.Empty(t, app.closers)
}
