package repository

import (
	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/gameswap/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type activityRepoImpl struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) marketplace.ActivityRepo {
	return &activityRepoImpl{q}
}

func (im *activityRepoImpl) makeQuery(opts ...marketplace.ActivityFindAllOptions) (bson.M, int, int, string, error) {
	options, err := marketplace.GetActivityFindAllOptions(opts...)
	if err != nil {
		return nil, 0, 0, "", err
	}

	qry := bson.M{}
	if options.Account != nil {
		qry["account"] = *options.Account
	}
	if options.ContractAddress != nil {
		qry["contractAddress"] = *options.ContractAddress
	}
	if options.TokenId != nil {
		qry["tokenId"] = *options.TokenId
	}
	if options.Type != nil {
		qry["type"] = *options.Type
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	sort := "-time"
	if options.SortBy != nil && options.SortDir != nil {
		sort = *options.SortBy
		if *options.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	return qry, offset, limit, sort, nil
}

func (im *activityRepoImpl) FindAll(c ctx.Ctx, opts ...marketplace.ActivityFindAllOptions) ([]marketplace.Activity, error) {
	qry, offset, limit, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithField("err", err).Error("im.makeQuery failed")
		return nil, err
	}

	res := []marketplace.Activity{}
	if err := im.q.Search(c, domain.TableActivityHistories, offset, limit, sort, qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *activityRepoImpl) Insert(c ctx.Ctx, a *marketplace.Activity) error {
	a.Account = a.Account.ToLower()
	a.To = a.To.ToLower()
	a.ContractAddress = a.ContractAddress.ToLower()
	if err := im.q.Insert(c, domain.TableActivityHistories, a); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"type": a.Type,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}
