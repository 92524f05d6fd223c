package worker

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"beacon/config"

	"github.com/stretchr/testify/assert"
)

type brokerState bool

func (b brokerState) IsClosed() bool { return bool(b) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		closed     bool
		wantStatus int
	}{
		{name: "connected", closed: false, wantStatus: http.StatusOK},
		{name: "disconnected", closed: true, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(ServerParams{
				Cfg:    &config.Config{},
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				Broker: brokerState(tt.closed),
			})
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
