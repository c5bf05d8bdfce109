package model

// DashboardStats is the derived aggregate from GET /dashboard/stats/.
// Read-only on the client; recomputed server-side after any mutation.
type DashboardStats struct {
	TotalTasks     int     `json:"total_tasks"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
	TodayTasks     int     `json:"today_tasks"`
}

// CompletionTrendItem is one day of the 7-day completion trend.
type CompletionTrendItem struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

type CategoryDistributionItem struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

type PriorityBreakdownItem struct {
	Priority   Priority `json:"priority"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// ChartData is the analytics payload from GET /dashboard/analytics/.
type ChartData struct {
	CompletionTrend      []CompletionTrendItem      `json:"completion_trend"`
	CategoryDistribution []CategoryDistributionItem `json:"category_distribution"`
	PriorityBreakdown    []PriorityBreakdownItem    `json:"priority_breakdown"`
}
