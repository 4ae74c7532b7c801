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

type listingRepoImpl struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) marketplace.ListingRepo {
	return &listingRepoImpl{q}
}

func (im *listingRepoImpl) makeQuery(opts ...marketplace.ListingFindAllOptions) (bson.M, int, int, string, error) {
	options, err := marketplace.GetListingFindAllOptions(opts...)
	if err != nil {
		return nil, 0, 0, "", err
	}

	qry := bson.M{}
	if options.Seller != nil {
		qry["seller"] = *options.Seller
	}
	if options.ContractAddress != nil {
		qry["contractAddress"] = *options.ContractAddress
	}
	if options.TokenId != nil {
		qry["tokenId"] = *options.TokenId
	}
	if options.Kind != nil {
		qry["kind"] = *options.Kind
	}
	if options.IsActive != nil {
		qry["isActive"] = *options.IsActive
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

func (im *listingRepoImpl) FindAll(c ctx.Ctx, opts ...marketplace.ListingFindAllOptions) ([]marketplace.Listing, error) {
	qry, offset, limit, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithField("err", err).Error("im.makeQuery failed")
		return nil, err
	}

	res := []marketplace.Listing{}
	if err := im.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *listingRepoImpl) Count(c ctx.Ctx, opts ...marketplace.ListingFindAllOptions) (int, error) {
	qry, _, _, _, err := im.makeQuery(opts...)
	if err != nil {
		c.WithField("err", err).Error("im.makeQuery failed")
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableListings, qry)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *listingRepoImpl) Upsert(c ctx.Ctx, l *marketplace.Listing) error {
	l.LowerCase()
	selector, err := mongoclient.MakeBsonM(l.ToId())
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.ToId(),
		}).Error("MakeBsonM failed")
		return err
	}
	if err := im.q.Upsert(c, domain.TableListings, selector, l); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *listingRepoImpl) Patch(c ctx.Ctx, id marketplace.ListingId, patch marketplace.ListingPatchable) error {
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("MakeBsonM failed")
		return err
	}
	updater, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"patch": patch,
		}).Error("MakeBsonM failed")
		return err
	}
	err = im.q.Patch(c, domain.TableListings, selector, updater)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}
