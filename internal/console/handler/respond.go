package handler

import (
	"encoding/json"
	"net"
	"net/http"
)

const (
	cacheNoStore = "no-store"
	cachePublic5 = "public, max-age=300"
)

func writeJSON(w http.ResponseWriter, status int, cacheControl string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError тело ошибки всегда {"error": "..."}
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, cacheNoStore, map[string]string{"error": msg})
}

// clientIP после realIP в RemoteAddr лежит адрес клиента (или доверенного прокси)
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
