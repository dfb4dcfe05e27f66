package remoteok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobfeed/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `[
  {"last_updated": 1700000000, "legal": "API terms"},
  {"id": "1", "position": "Senior Backend Engineer", "company": "Acme", "location": "Remote", "url": "https://remoteok.com/1"},
  {"id": "2", "position": "Designer", "company": "Foo", "location": "EU", "url": "https://remoteok.com/2"}
]`

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Success(t *testing.T) {
	var gotUA string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	})

	s := New(Config{Endpoint: srv.URL, UserAgent: "test-agent"}, nil)
	raw, err := s.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-agent", gotUA)
	assert.Len(t, raw, 3)

	jobs := raw.Postings()
	require.Len(t, jobs, 2)
	assert.JSONEq(t, `{"id": "1", "position": "Senior Backend Engineer", "company": "Acme", "location": "Remote", "url": "https://remoteok.com/1"}`, string(jobs[0]))
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   errors.Kind
	}{
		{"server error", http.StatusInternalServerError, `oops`, errors.KindHTTP},
		{"forbidden", http.StatusForbidden, `[]`, errors.KindHTTP},
		{"not json", http.StatusOK, `<html>blocked</html>`, errors.KindMalformedResponse},
		{"object top level", http.StatusOK, `{"jobs": []}`, errors.KindMalformedResponse},
		{"empty body", http.StatusOK, ``, errors.KindMalformedResponse},
		{"truncated", http.StatusOK, `[{"id": 1`, errors.KindMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			raw, err := New(Config{Endpoint: srv.URL}, nil).Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, raw)
			assert.Equal(t, tt.want, errors.KindOf(err))
			if tt.want == errors.KindHTTP {
				assert.Equal(t, tt.status, errors.StatusOf(err))
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	s := New(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
}

func TestFetch_ContextDeadline(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := New(Config{Endpoint: srv.URL}, nil).Fetch(ctx)
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Config{Endpoint: url}, nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{}, nil)
	assert.Equal(t, DefaultEndpoint, s.cfg.Endpoint)
	assert.Equal(t, DefaultTimeout, s.hc.Timeout)
	assert.NotEmpty(t, s.cfg.UserAgent)
	assert.Equal(t, "remoteok", s.Name())
}
