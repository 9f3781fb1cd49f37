package models

// DashboardStats is the actor-independent part of the KB dashboard
type DashboardStats struct {
	TotalArticles   int              `json:"total_articles"`
	TotalCategories int              `json:"total_categories"`
	TotalSuppliers  int              `json:"total_suppliers"`
	Recent          []ArticleSummary `json:"recent_articles"`
	Popular         []ArticleSummary `json:"popular_articles"`
	Categories      []*Category      `json:"categories"`
}

// Dashboard is the per-actor dashboard view
type Dashboard struct {
	DashboardStats
	PendingArticles int `json:"pending_articles"`
}

// ReviewQueue lists articles awaiting approval
type ReviewQueue struct {
	Pending []ArticleSummary `json:"pending_articles"`
	StatusCounts
}
