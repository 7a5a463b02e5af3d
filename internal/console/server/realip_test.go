package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.10 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, proxies, 3)

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestRealIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.10"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		proxies TrustedProxies
		remote  string
		headers map[string]string
		want    string
	}{
		{"no proxies configured", nil, "203.0.113.7:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.7:1234"},
		{"untrusted peer", proxies, "203.0.113.7:1234", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7:1234"},
		{"trusted cidr, xff first hop", proxies, "10.9.9.9:1234", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.9.9.9"}, "1.2.3.4"},
		{"trusted single ip, x-real-ip", proxies, "192.168.1.10:80", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8"},
		{"trusted peer, garbage header", proxies, "10.9.9.9:1234", map[string]string{"X-Forwarded-For": "unknown"}, "10.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := realIP(tt.proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
