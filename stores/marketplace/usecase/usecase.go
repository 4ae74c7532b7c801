package usecase

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/ledger"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/gameswap/goapi/domain/registry"
)

// guardKey marks a ctx already inside a mutating marketplace call. Adapter
// callbacks run on the caller goroutine, so a mutex cannot catch reentry
// without deadlocking, the marker travels through the ctx instead.
const guardKey = "marketplaceCall"

// maxTokenAmount is the largest value a 256 bit token amount can carry
var maxTokenAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

type MarketplaceUseCaseCfg struct {
	ListingRepo  marketplace.ListingRepo
	MetricsRepo  marketplace.MetricsRepo
	ActivityRepo marketplace.ActivityRepo
	Ledger       ledger.Ledger
	Unique       registry.UniqueRegistry
	Holding      registry.HoldingRegistry
	Events       marketplace.EventSink
	Market       marketplace.Config
}

type impl struct {
	listingRepo  marketplace.ListingRepo
	metricsRepo  marketplace.MetricsRepo
	activityRepo marketplace.ActivityRepo
	ledger       ledger.Ledger
	unique       registry.UniqueRegistry
	holding      registry.HoldingRegistry
	events       marketplace.EventSink

	mu     sync.RWMutex
	state  *marketState
	market marketplace.Config
	paused bool
}

// NewMarketplaceUseCase builds the engine and rehydrates its in-memory
// state from the durable mirror. Repos are the mirror, not the authority:
// every mutating call settles in memory first and writes through after.
func NewMarketplaceUseCase(c ctx.Ctx, cfg *MarketplaceUseCaseCfg) (marketplace.UseCase, error) {
	if cfg.Market.FeeBps < 0 || cfg.Market.FeeBps > 10000 {
		return nil, domain.ErrBadParamInput
	}
	im := &impl{
		listingRepo:  cfg.ListingRepo,
		metricsRepo:  cfg.MetricsRepo,
		activityRepo: cfg.ActivityRepo,
		ledger:       cfg.Ledger,
		unique:       cfg.Unique,
		holding:      cfg.Holding,
		events:       cfg.Events,
		state:        newMarketState(),
		market: marketplace.Config{
			ChainId:      cfg.Market.ChainId,
			FeeBps:       cfg.Market.FeeBps,
			Owner:        cfg.Market.Owner.ToLower(),
			Treasury:     cfg.Market.Treasury.ToLower(),
			PaymentToken: cfg.Market.PaymentToken.ToLower(),
			Escrow:       cfg.Market.Escrow.ToLower(),
		},
	}
	if err := im.load(c); err != nil {
		return nil, err
	}
	return im, nil
}

func (im *impl) load(c ctx.Ctx) error {
	s := newMarketState()

	listings, err := im.listingRepo.FindAll(c, marketplace.ListingWithSort("listingId", domain.SortDirAsc))
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return err
	}
	for i := range listings {
		l := listings[i]
		l.LowerCase()
		s.listings[l.ListingId] = &l
		s.userListings[l.Seller] = append(s.userListings[l.Seller], l.ListingId)
		if l.ListingId >= s.nextListingId {
			s.nextListingId = l.ListingId + 1
		}
	}

	metrics, err := im.metricsRepo.FindAll(c)
	if err != nil {
		c.WithField("err", err).Error("metricsRepo.FindAll failed")
		return err
	}
	for i := range metrics {
		m := metrics[i]
		s.metrics[m.ToId()] = &m
	}

	// buy activities carry enough to rebuild purchase history, trade
	// counters and the demand window
	buys, err := im.activityRepo.FindAll(c,
		marketplace.ActivityWithType(marketplace.ActivityTypeBuy),
		marketplace.ActivityWithSort("time", domain.SortDirAsc),
	)
	if err != nil {
		c.WithField("err", err).Error("activityRepo.FindAll failed")
		return err
	}
	for _, a := range buys {
		buyer := a.Account.ToLower()
		seller := a.To.ToLower()
		s.userPurchases[buyer] = append(s.userPurchases[buyer], a.ListingId)
		s.tradeCounts[buyer]++
		s.tradeCounts[seller]++
		s.lastPurchases[purchaseKey{buyer, a.ListingId}] = a.Time
		id := marketplace.MetricsId{ContractAddress: a.ContractAddress.ToLower(), TokenId: a.TokenId}
		if s.buyers[id] == nil {
			s.buyers[id] = map[domain.Address]time.Time{}
		}
		s.buyers[id][buyer] = a.Time
	}

	im.state = s
	return nil
}

// enter rejects a ctx that is already inside a mutating call and tags the
// ctx for the adapter calls made underneath
func (im *impl) enter(c ctx.Ctx) (ctx.Ctx, error) {
	if c.Value(guardKey) != nil {
		return c, domain.ErrReentrantCall
	}
	return ctx.WithValue(c, guardKey, true), nil
}

// mirror writes a committed listing and metrics snapshot through to mongo.
// The in-memory commit already happened, a mirror failure is logged and
// repaired by the next write, never surfaced to the caller.
func (im *impl) mirror(c ctx.Ctx, l *marketplace.Listing, m *marketplace.MarketMetrics) {
	if l != nil {
		cp := *l
		if err := im.listingRepo.Upsert(c, &cp); err != nil {
			c.WithFields(log.Fields{"err": err, "listingId": l.ListingId}).Error("listing mirror write failed")
		}
	}
	if m != nil {
		cp := *m
		if err := im.metricsRepo.Upsert(c, &cp); err != nil {
			c.WithFields(log.Fields{"err": err, "contract": m.ContractAddress}).Error("metrics mirror write failed")
		}
	}
}

// patchMirror writes targeted listing fields through to mongo, same
// contract as mirror: the in-memory commit already happened, failures are
// only logged
func (im *impl) patchMirror(c ctx.Ctx, id marketplace.ListingId, p marketplace.ListingPatchable) {
	if err := im.listingRepo.Patch(c, id, p); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": id.ListingId}).Error("listing mirror patch failed")
	}
}

func (im *impl) record(c ctx.Ctx, a *marketplace.Activity) {
	if err := im.activityRepo.Insert(c, a); err != nil {
		c.WithFields(log.Fields{"err": err, "type": a.Type}).Error("activity write failed")
	}
}

func (im *impl) notify(c ctx.Ctx, m *marketplace.MarketMetrics) {
	if im.events == nil || m == nil {
		return
	}
	cp := *m
	im.events.MetricsUpdated(c, &cp)
}

func (im *impl) requireOwner(caller domain.Address) error {
	if !caller.Equals(im.market.Owner) {
		return domain.ErrNotOwner
	}
	return nil
}

func (im *impl) GetListing(c ctx.Ctx, listingId int64) (*marketplace.Listing, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	l, ok := im.state.listings[listingId]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (im *impl) GetActiveListings(c ctx.Ctx) ([]int64, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	ids := []int64{}
	for id, l := range im.state.listings {
		if l.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (im *impl) GetUserStats(c ctx.Ctx, address domain.Address) (*marketplace.UserStats, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	addr := address.ToLower()
	return &marketplace.UserStats{
		Address:    addr,
		TradeCount: im.state.tradeCounts[addr],
		Listings:   append([]int64{}, im.state.userListings[addr]...),
		Purchases:  append([]int64{}, im.state.userPurchases[addr]...),
	}, nil
}

func (im *impl) GetMetrics(c ctx.Ctx, id marketplace.MetricsId) (*marketplace.MarketMetrics, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	id.ContractAddress = id.ContractAddress.ToLower()
	m, ok := im.state.metrics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (im *impl) GetActivities(c ctx.Ctx, opts ...marketplace.ActivityFindAllOptions) ([]marketplace.Activity, error) {
	return im.activityRepo.FindAll(c, opts...)
}

func (im *impl) IsPaused(c ctx.Ctx) bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.paused
}
