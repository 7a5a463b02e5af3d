package domain

import (
	"fmt"
	"time"
)

// Ago форматирует "2 min ago" для колонки Time в ленте угроз.
func Ago(now, t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%d d ago", int(d/(24*time.Hour)))
	}
}

// ActivityDay календарные сутки гистограммы активности. Всегда UTC:
// seed пишет activity_hours.date, а уровень БД читает их по одному и тому же правилу,
// независимо от часового пояса сессии PostgreSQL.
func ActivityDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
