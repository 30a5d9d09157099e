package clientip_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/coerce/pkg/clientip"
	"github.com/dmitrymomot/coerce/pkg/logger"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "remote without port", remote: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:80", want: "2001:db8::1"},
		{name: "mapped ipv4", remote: "[::ffff:192.0.2.7]:80", want: "192.0.2.7"},
		{name: "garbage remote", remote: "nonsense", want: ""},
		{
			name:    "headers ignored without trust",
			remote:  "192.0.2.1:1",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "192.0.2.1",
		},
		{
			name:       "forwarded first valid",
			remote:     "192.0.2.1:1",
			headers:    map[string]string{"X-Forwarded-For": "bogus, 203.0.113.9, 10.0.0.1"},
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "cloudflare wins",
			remote:     "192.0.2.1:1",
			headers:    map[string]string{"CF-Connecting-IP": "198.51.100.4", "X-Forwarded-For": "203.0.113.9"},
			trustProxy: true,
			want:       "198.51.100.4",
		},
		{
			name:       "real ip",
			remote:     "192.0.2.1:1",
			headers:    map[string]string{"X-Real-IP": " 198.51.100.5 "},
			trustProxy: true,
			want:       "198.51.100.5",
		},
		{
			name:       "invalid headers fall back",
			remote:     "192.0.2.1:1",
			headers:    map[string]string{"X-Forwarded-For": "<script>", "X-Real-IP": "999.1.1.1"},
			trustProxy: true,
			want:       "192.0.2.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r, tt.trustProxy))
		})
	}
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	h := clientip.Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "192.0.2.1", clientip.FromContext(r.Context()))
		log.InfoContext(r.Context(), "seen")
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Contains(t, buf.String(), `"client_ip":"192.0.2.1"`)
}
