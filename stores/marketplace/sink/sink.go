package sink

import (
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/base/metrics"
	"github.com/gameswap/goapi/domain/keys"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/gameswap/goapi/service/redis"
)

// snapshots only serve dashboards, a stale one is harmless
const snapshotTTL = 24 * time.Hour

type impl struct {
	redis redis.Service
	met   metrics.Service
}

// New builds an event sink which publishes the latest metrics snapshot of
// each (contract, tokenId) to redis and bumps datadog counters
func New(redis redis.Service) marketplace.EventSink {
	return &impl{
		redis: redis,
		met:   metrics.New("marketplace.sink"),
	}
}

func (im *impl) MetricsUpdated(c ctx.Ctx, m *marketplace.MarketMetrics) {
	key := keys.RedisKey(keys.PfxMarketMetrics, m.ContractAddress.ToLowerStr(), m.TokenId.String())
	if err := im.redis.SetStruct(c, key, m, snapshotTTL); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"key": key,
		}).Warn("redis.SetStruct failed")
	}
	im.met.BumpSum("metrics.updated", 1)
	im.met.BumpHistogram("metrics.trades", float64(m.TotalTrades))
	im.met.BumpHistogram("metrics.demand", float64(m.Demand))
}
