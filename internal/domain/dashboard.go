package domain

import "time"

// DataSource: ярлык уровня (tier), из которого пришли данные.
type DataSource string

const (
	SourceEngine   DataSource = "ai-engine"
	SourceDatabase DataSource = "database"
	SourceMock     DataSource = "mock"
)

// Severity Уровни критичности угроз и инсайтов
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// DetectorStatus Состояние детектора
type DetectorStatus string

const (
	DetectorActive   DetectorStatus = "active"
	DetectorScanning DetectorStatus = "scanning"
	DetectorIdle     DetectorStatus = "idle"
)

// MetricsSnapshot: «живые» счетчики верхней панели дашборда.
type MetricsSnapshot struct {
	TrustScore           int `json:"trustScore"` // 0..100
	ThreatsBlocked       int `json:"threatsBlocked"`
	ScansCompleted       int `json:"scansCompleted"`
	ActiveAlerts         int `json:"activeAlerts"`
	ZKProofsGenerated    int `json:"zkProofsGenerated"`
	OnChainVerifications int `json:"onChainVerifications"`
}

type Detector struct {
	Name     string         `json:"name"` // Уникальный ключ
	Status   DetectorStatus `json:"status"`
	Detected int            `json:"detected"`
	Category string         `json:"category"` // Используется UI для цветовой схемы
}

type Threat struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Severity   Severity  `json:"severity"`
	Source     string    `json:"source"` // Обычно IP
	Time       string    `json:"time"`   // Человекочитаемое "2 min ago"
	CreatedAt  time.Time `json:"createdAt"`
	Status     string    `json:"status"` // blocked | investigating | ...
	Confidence int       `json:"confidence"`
	AIInsight  string    `json:"aiInsight"`
	Mitre      string    `json:"mitre"`
}

type GeoAttack struct {
	Country   string   `json:"country"`
	Code      string   `json:"code"` // ISO-2
	Attacks   int      `json:"attacks"`
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Intensity Severity `json:"intensity"`
}

type ActivityPoint struct {
	Hour    string `json:"hour"`
	Threats int    `json:"threats"`
	Scans   int    `json:"scans"`
}

type NetworkInsight struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Severity        Severity `json:"severity"`
	Confidence      int      `json:"confidence"`
	Summary         string   `json:"summary"`
	Recommendation  string   `json:"recommendation"`
	AffectedSystems []string `json:"affectedSystems"`
	Mitre           string   `json:"mitre"`
}

type ThreatCategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Color string `json:"color"` // Основной цвет (текст)
	Bg    string `json:"bg"`    // Фон бейджа
}

// DashboardData Полный агрегат для GET /api/dashboard.
// DataSource отражает только результат пробы движка, а не происхождение каждого поля:
// фактический уровень по каждому набору лежит в Sources.
type DashboardData struct {
	Metrics          MetricsSnapshot       `json:"metrics"`
	Detectors        []Detector            `json:"detectors"`
	Threats          []Threat              `json:"threats"`
	ThreatCategories []ThreatCategoryCount `json:"threatCategories"`
	GeoAttacks       []GeoAttack           `json:"geoData"`
	Activity         []ActivityPoint       `json:"activityData"`
	Insights         []NetworkInsight      `json:"networkInsights"`

	Timestamp    time.Time             `json:"timestamp"`
	DataSource   DataSource            `json:"dataSource"`
	EngineOnline bool                  `json:"engineOnline"`
	Sources      map[string]DataSource `json:"sources"`
}

// ActivityHour строка activity_hours: час суток за конкретную дату
type ActivityHour struct {
	Hour    int       `json:"hour"`
	Date    time.Time `json:"date"`
	Threats int       `json:"threats"`
	Scans   int       `json:"scans"`
}
