package itop

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
	"github.com/ajitpratap0/idbridge/pkg/testutil"
)

// captured is one request received by fakeITop
type captured struct {
	Version  string
	Form     map[string]string
	Envelope map[string]interface{}
}

// fakeITop is an httptest iTop endpoint. respond returns the HTTP status and
// JSON body for each decoded envelope.
type fakeITop struct {
	*httptest.Server

	mu       sync.Mutex
	requests []captured
}

func newFakeITop(t *testing.T, respond func(env map[string]interface{}) (int, string)) *fakeITop {
	t.Helper()

	f := &fakeITop{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		c := captured{
			Version: r.URL.Query().Get("version"),
			Form:    make(map[string]string),
		}
		for k, v := range r.MultipartForm.Value {
			c.Form[k] = v[0]
		}
		require.NoError(t, jsonpool.Unmarshal([]byte(c.Form["json_data"]), &c.Envelope))

		f.mu.Lock()
		f.requests = append(f.requests, c)
		f.mu.Unlock()

		status, body := respond(c.Envelope)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeITop) last(t *testing.T) captured {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request received")
	return f.requests[len(f.requests)-1]
}

func (f *fakeITop) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// ok responds with code 0 and body for every request
func ok(body string) func(map[string]interface{}) (int, string) {
	return func(map[string]interface{}) (int, string) { return http.StatusOK, body }
}

func newTestConnector(t *testing.T, cfg *config.Config) *Connector {
	t.Helper()
	c, err := New(registry.Options{Config: cfg, Debug: true, Logger: testutil.TestLogger(t)})
	require.NoError(t, err)
	return c
}
