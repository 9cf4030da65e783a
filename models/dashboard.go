package models

type KPI struct {
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
}

type MonthlyCount struct {
	Name      string `json:"name"`
	Referrals int64  `json:"referrals"`
}

type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
}

type Dashboard struct {
	KPIs             map[string]KPI `json:"kpis"`
	MonthlyReferrals []MonthlyCount `json:"monthlyReferrals"`
	RecentActivities []Activity     `json:"recentActivities"`
}
