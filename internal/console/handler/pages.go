package handler

import (
	"embed"
	"net/http"
)

//go:embed pages/*.html
var pages embed.FS

// Оболочки страниц: сам UI собирается на клиенте из /api/*
func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := pages.ReadFile("pages/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheNoStore)
		_, _ = w.Write(body)
	}
}

func DashboardPage() http.HandlerFunc { return servePage("dashboard.html") }

func LoginPage() http.HandlerFunc { return servePage("login.html") }
