package domain

// Table is a mongo collection name
type Table string

const (
	TableListings          Table = "marketplace_listings"
	TableMarketMetrics     Table = "marketplace_metrics"
	TableActivityHistories Table = "activity_histories"
)
