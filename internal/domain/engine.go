package domain

import "time"

// EngineHealth ответ /health удаленного AI-движка
type EngineHealth struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  int64  `json:"uptime,omitempty"`
}

// EngineStatus расширенное состояние движка (/api/v1/status)
type EngineStatus struct {
	Models        []string  `json:"models"`
	QueueDepth    int       `json:"queue_depth"`
	ActiveScans   int       `json:"active_scans"`
	LastScanAt    time.Time `json:"last_scan_at"`
	DetectorCount int       `json:"detector_count"`
}

// EngineState: ответ GET /api/engine
type EngineState struct {
	Online    bool          `json:"online"`
	Health    *EngineHealth `json:"health"`
	Status    *EngineStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// CatalogEntry описывает одну возможность (детектор/модель) каталога движка.
type CatalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Techniques  []string `json:"techniques,omitempty"` // MITRE ATT&CK
}

type ScanRequest struct {
	Target string `json:"target"`
}

// EngineScanResult: то, что движок возвращает на запуск скана.
// Клиент не опрашивает завершение (fire-and-forget).
type EngineScanResult struct {
	ScanID    string    `json:"scan_id"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	Findings  int       `json:"findings"`
	StartedAt time.Time `json:"started_at"`
}
