package dashboard

import (
	"strings"

	"github.com/xela07ax/shield-console/internal/domain"
)

// drift сдвигает последний снимок из БД на случайную дельту.
// Значения не согласованы ни с движком, ни с mock: это демо-поведение.
func (r *Resolver) drift(m domain.MetricsSnapshot) domain.MetricsSnapshot {
	r.rndMu.Lock()
	defer r.rndMu.Unlock()

	m.TrustScore = clamp(m.TrustScore+r.rnd.IntN(3)-1, 0, 100) // ±1
	m.ThreatsBlocked += r.rnd.IntN(6)
	m.ScansCompleted += r.rnd.IntN(21)
	m.ActiveAlerts = clamp(m.ActiveAlerts+r.rnd.IntN(3)-1, 0, m.ActiveAlerts+1)
	m.ZKProofsGenerated += r.rnd.IntN(4)
	m.OnChainVerifications += r.rnd.IntN(3)
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type colorPair struct{ text, bg string }

// Порядок важен: первое совпадение по подстроке выигрывает
var categoryPalette = []struct {
	key  string
	pair colorPair
}{
	{"phishing", colorPair{"text-red-400", "bg-red-500/20"}},
	{"ransom", colorPair{"text-orange-400", "bg-orange-500/20"}},
	{"malware", colorPair{"text-orange-400", "bg-orange-500/20"}},
	{"contract", colorPair{"text-purple-400", "bg-purple-500/20"}},
	{"ddos", colorPair{"text-blue-400", "bg-blue-500/20"}},
	{"scan", colorPair{"text-blue-400", "bg-blue-500/20"}},
	{"network", colorPair{"text-blue-400", "bg-blue-500/20"}},
	{"brute", colorPair{"text-yellow-400", "bg-yellow-500/20"}},
	{"login", colorPair{"text-yellow-400", "bg-yellow-500/20"}},
	{"credential", colorPair{"text-yellow-400", "bg-yellow-500/20"}},
	{"exfil", colorPair{"text-cyan-400", "bg-cyan-500/20"}},
	{"anomaly", colorPair{"text-cyan-400", "bg-cyan-500/20"}},
	{"injection", colorPair{"text-pink-400", "bg-pink-500/20"}},
}

var defaultColor = colorPair{"text-gray-400", "bg-gray-500/20"}

// colorize назначает пару цветов по типу угрозы (подстрока, без учета регистра)
func colorize(in []domain.ThreatCategoryCount) []domain.ThreatCategoryCount {
	for i := range in {
		c := defaultColor
		name := strings.ToLower(in[i].Name)
		for _, p := range categoryPalette {
			if strings.Contains(name, p.key) {
				c = p.pair
				break
			}
		}
		in[i].Color, in[i].Bg = c.text, c.bg
	}
	return in
}
