package sse

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteEvent("scope_changed", []byte(`{"kind":"moved"}`)))
	require.NoError(t, w.WriteKeepAlive())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: scope_changed\ndata: {\"kind\":\"moved\"}\n\n: keepalive\n\n", rec.Body.String())
}

type failingWriter struct{ calls atomic.Int32 }

func (f *failingWriter) WriteKeepAlive() error {
	f.calls.Add(1)
	return errors.New("connection closed")
}

func TestTickerKeepAlive_StopsOnWriteError(t *testing.T) {
	w := &failingWriter{}
	k := NewTickerKeepAlive(time.Millisecond)
	stopped := k.Start(w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("keep-alive did not stop after a failed write")
	}
	assert.Equal(t, int32(1), w.calls.Load())
	k.Stop()
	k.Stop()
}
