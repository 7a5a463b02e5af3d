package handler

import "net/http"

// PublicConfig то, что фронтенду можно знать до логина
type PublicConfig struct {
	WalletConnectProjectID string `json:"walletConnectProjectId"`
}

func PublicConfigHandler(cfg PublicConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cachePublic5, cfg)
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheNoStore, map[string]string{"status": "ok"})
}
