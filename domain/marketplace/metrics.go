package marketplace

import (
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

// MarketMetrics is the running statistic for one (contract, tokenId) key.
// Supply counts listings ever created, it is never decremented. Demand is
// the number of distinct buyers within the trailing 24 hours.
type MarketMetrics struct {
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	// sum of trade notional excluding fees, decimal string
	TotalVolume  string    `json:"totalVolume" bson:"totalVolume"`
	TotalTrades  int64     `json:"totalTrades" bson:"totalTrades"`
	LastPrice    string    `json:"lastPrice" bson:"lastPrice"`
	HighestPrice string    `json:"highestPrice" bson:"highestPrice"`
	LowestPrice  string    `json:"lowestPrice" bson:"lowestPrice"`
	Supply       int64     `json:"supply" bson:"supply"`
	Demand       int64     `json:"demand" bson:"demand"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (m *MarketMetrics) ToId() MetricsId {
	return MetricsId{
		ContractAddress: m.ContractAddress,
		TokenId:         m.TokenId,
	}
}

type MetricsId struct {
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type metricsFindAllOptions struct {
	SortBy          *string         `bson:"-"`
	SortDir         *domain.SortDir `bson:"-"`
	Offset          *int32          `bson:"-"`
	Limit           *int32          `bson:"-"`
	ContractAddress *domain.Address `bson:"contractAddress"`
}

type MetricsFindAllOptions func(*metricsFindAllOptions) error

func GetMetricsFindAllOptions(opts ...MetricsFindAllOptions) (metricsFindAllOptions, error) {
	res := metricsFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func MetricsWithSort(sortby string, sortdir domain.SortDir) MetricsFindAllOptions {
	return func(options *metricsFindAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

func MetricsWithPagination(offset int32, limit int32) MetricsFindAllOptions {
	return func(options *metricsFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func MetricsWithContractAddress(contractAddress domain.Address) MetricsFindAllOptions {
	return func(options *metricsFindAllOptions) error {
		options.ContractAddress = contractAddress.ToLowerPtr()
		return nil
	}
}

type MetricsRepo interface {
	FindAll(c ctx.Ctx, opts ...MetricsFindAllOptions) ([]MarketMetrics, error)
	Upsert(c ctx.Ctx, m *MarketMetrics) error
}

// EventSink receives a metrics snapshot after every aggregator update
type EventSink interface {
	MetricsUpdated(c ctx.Ctx, m *MarketMetrics)
}
