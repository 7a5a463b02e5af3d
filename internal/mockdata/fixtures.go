package mockdata

import (
	"time"

	"github.com/xela07ax/shield-console/internal/domain"
)

var detectors = []domain.Detector{
	{Name: "Neural Phishing Detector", Status: domain.DetectorActive, Detected: 1247, Category: "phishing"},
	{Name: "Smart Contract Auditor", Status: domain.DetectorScanning, Detected: 389, Category: "contract"},
	{Name: "Anomaly Behavior Engine", Status: domain.DetectorActive, Detected: 2156, Category: "anomaly"},
	{Name: "Ransomware Sentinel", Status: domain.DetectorActive, Detected: 94, Category: "malware"},
	{Name: "DDoS Pattern Analyzer", Status: domain.DetectorIdle, Detected: 512, Category: "network"},
	{Name: "Wallet Drainer Watch", Status: domain.DetectorActive, Detected: 731, Category: "wallet"},
	{Name: "Zero-Day Heuristics", Status: domain.DetectorScanning, Detected: 17, Category: "exploit"},
	{Name: "Credential Stuffing Guard", Status: domain.DetectorActive, Detected: 1893, Category: "auth"},
}

type threatTemplate struct {
	threat domain.Threat
	age    time.Duration
}

var threatTemplates = []threatTemplate{
	{age: 2 * time.Minute, threat: domain.Threat{
		ID: "THR-2041", Type: "Phishing Campaign", Severity: domain.SeverityCritical,
		Source: "185.220.101.42", Status: "blocked", Confidence: 98,
		AIInsight: "Lookalike domain registered 6h ago, mirrors wallet connect flow.",
		Mitre:     "T1566.002",
	}},
	{age: 7 * time.Minute, threat: domain.Threat{
		ID: "THR-2040", Type: "Brute Force", Severity: domain.SeverityHigh,
		Source: "45.155.205.233", Status: "blocked", Confidence: 94,
		AIInsight: "412 failed logins across 37 accounts in 3 minutes from one ASN.",
		Mitre:     "T1110.004",
	}},
	{age: 15 * time.Minute, threat: domain.Threat{
		ID: "THR-2039", Type: "Malicious Contract", Severity: domain.SeverityCritical,
		Source: "0x7a25...4f1c", Status: "investigating", Confidence: 87,
		AIInsight: "Unlimited approval pattern with hidden transferFrom in proxy.",
		Mitre:     "T1195.002",
	}},
	{age: 32 * time.Minute, threat: domain.Threat{
		ID: "THR-2038", Type: "Port Scan", Severity: domain.SeverityMedium,
		Source: "103.75.190.11", Status: "blocked", Confidence: 91,
		AIInsight: "Sequential SYN probes against RPC ports 8545-8547.",
		Mitre:     "T1046",
	}},
	{age: 48 * time.Minute, threat: domain.Threat{
		ID: "THR-2037", Type: "Data Exfiltration", Severity: domain.SeverityHigh,
		Source: "91.240.118.172", Status: "investigating", Confidence: 76,
		AIInsight: "Outbound DNS tunnel entropy above baseline for a build agent.",
		Mitre:     "T1048.003",
	}},
	{age: 95 * time.Minute, threat: domain.Threat{
		ID: "THR-2036", Type: "Suspicious Login", Severity: domain.SeverityLow,
		Source: "77.91.124.20", Status: "resolved", Confidence: 63,
		AIInsight: "New device and geo for admin account, MFA passed.",
		Mitre:     "T1078",
	}},
}

var categories = []domain.ThreatCategoryCount{
	{Name: "Phishing", Count: 1247, Color: "text-red-400", Bg: "bg-red-500/20"},
	{Name: "Malware", Count: 892, Color: "text-orange-400", Bg: "bg-orange-500/20"},
	{Name: "Smart Contract", Count: 389, Color: "text-purple-400", Bg: "bg-purple-500/20"},
	{Name: "Network", Count: 512, Color: "text-blue-400", Bg: "bg-blue-500/20"},
	{Name: "Credential", Count: 1893, Color: "text-yellow-400", Bg: "bg-yellow-500/20"},
	{Name: "Anomaly", Count: 2156, Color: "text-cyan-400", Bg: "bg-cyan-500/20"},
}

var geoAttacks = []domain.GeoAttack{
	{Country: "Russia", Code: "RU", Attacks: 4821, Lat: 61.52, Lng: 105.32, Intensity: domain.SeverityCritical},
	{Country: "China", Code: "CN", Attacks: 3954, Lat: 35.86, Lng: 104.20, Intensity: domain.SeverityCritical},
	{Country: "North Korea", Code: "KP", Attacks: 2210, Lat: 40.34, Lng: 127.51, Intensity: domain.SeverityHigh},
	{Country: "Iran", Code: "IR", Attacks: 1387, Lat: 32.43, Lng: 53.69, Intensity: domain.SeverityHigh},
	{Country: "Brazil", Code: "BR", Attacks: 864, Lat: -14.24, Lng: -51.93, Intensity: domain.SeverityMedium},
	{Country: "Nigeria", Code: "NG", Attacks: 642, Lat: 9.08, Lng: 8.68, Intensity: domain.SeverityMedium},
	{Country: "India", Code: "IN", Attacks: 511, Lat: 20.59, Lng: 78.96, Intensity: domain.SeverityMedium},
	{Country: "United States", Code: "US", Attacks: 298, Lat: 37.09, Lng: -95.71, Intensity: domain.SeverityLow},
}

var insights = []domain.NetworkInsight{
	{
		ID: "INS-001", Title: "Coordinated credential stuffing from residential proxies",
		Severity: domain.SeverityHigh, Confidence: 92,
		Summary:         "Login attempts rotate across 1,200 residential IPs with identical TLS fingerprints.",
		Recommendation:  "Enable device-bound MFA and rate-limit by JA3 fingerprint.",
		AffectedSystems: []string{"auth-gateway", "user-portal"},
		Mitre:           "T1110.004",
	},
	{
		ID: "INS-002", Title: "Approval phishing targeting treasury wallet",
		Severity: domain.SeverityCritical, Confidence: 88,
		Summary:         "Three lookalike dApp domains request unlimited token approvals.",
		Recommendation:  "Revoke stale approvals and add domain allowlist to wallet policy.",
		AffectedSystems: []string{"treasury-multisig", "dapp-frontend"},
		Mitre:           "T1566.002",
	},
	{
		ID: "INS-003", Title: "Unusual egress from CI runners",
		Severity: domain.SeverityMedium, Confidence: 74,
		Summary:         "Build agents resolve high-entropy subdomains outside release windows.",
		Recommendation:  "Restrict runner egress to package mirrors and audit recent jobs.",
		AffectedSystems: []string{"ci-runner-03", "ci-runner-07"},
		Mitre:           "T1048.003",
	},
	{
		ID: "INS-004", Title: "RPC endpoint reconnaissance",
		Severity: domain.SeverityLow, Confidence: 81,
		Summary:         "Repeated method enumeration against public JSON-RPC nodes.",
		Recommendation:  "Disable debug_* and admin_* namespaces on public nodes.",
		AffectedSystems: []string{"rpc-node-eu-1"},
		Mitre:           "T1046",
	},
}
