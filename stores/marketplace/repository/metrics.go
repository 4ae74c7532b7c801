package repository

import (
	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/database/mongoclient"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/gameswap/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type metricsRepoImpl struct {
	q query.Mongo
}

func NewMetricsRepo(q query.Mongo) marketplace.MetricsRepo {
	return &metricsRepoImpl{q}
}

func (im *metricsRepoImpl) makeQuery(opts ...marketplace.MetricsFindAllOptions) (bson.M, int, int, string, error) {
	options, err := marketplace.GetMetricsFindAllOptions(opts...)
	if err != nil {
		return nil, 0, 0, "", err
	}

	qry := bson.M{}
	if options.ContractAddress != nil {
		qry["contractAddress"] = *options.ContractAddress
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	sort := "_id"
	if options.SortBy != nil && options.SortDir != nil {
		sort = *options.SortBy
		if *options.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	return qry, offset, limit, sort, nil
}

func (im *metricsRepoImpl) FindAll(c ctx.Ctx, opts ...marketplace.MetricsFindAllOptions) ([]marketplace.MarketMetrics, error) {
	qry, offset, limit, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithField("err", err).Error("im.makeQuery failed")
		return nil, err
	}

	res := []marketplace.MarketMetrics{}
	if err := im.q.Search(c, domain.TableMarketMetrics, offset, limit, sort, qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *metricsRepoImpl) Upsert(c ctx.Ctx, m *marketplace.MarketMetrics) error {
	m.ContractAddress = m.ContractAddress.ToLower()
	selector, err := mongoclient.MakeBsonM(m.ToId())
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  m.ToId(),
		}).Error("MakeBsonM failed")
		return err
	}
	if err := im.q.Upsert(c, domain.TableMarketMetrics, selector, m); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
