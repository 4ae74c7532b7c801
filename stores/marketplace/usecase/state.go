package usecase

import (
	"math/big"
	"time"

	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
)

// demandWindow is the trailing window for the distinct-buyer count
const demandWindow = 24 * time.Hour

type purchaseKey struct {
	address   domain.Address
	listingId int64
}

// marketState is the authoritative engine state. Every mutating call works
// on a deep copy and swaps it in only after all steps succeeded, so a failed
// call never leaves a partial effect behind.
type marketState struct {
	nextListingId int64
	listings      map[int64]*marketplace.Listing
	metrics       map[marketplace.MetricsId]*marketplace.MarketMetrics
	userListings  map[domain.Address][]int64
	userPurchases map[domain.Address][]int64
	tradeCounts   map[domain.Address]int64
	lastPurchases map[purchaseKey]time.Time
	buyers        map[marketplace.MetricsId]map[domain.Address]time.Time
}

func newMarketState() *marketState {
	return &marketState{
		nextListingId: 1,
		listings:      map[int64]*marketplace.Listing{},
		metrics:       map[marketplace.MetricsId]*marketplace.MarketMetrics{},
		userListings:  map[domain.Address][]int64{},
		userPurchases: map[domain.Address][]int64{},
		tradeCounts:   map[domain.Address]int64{},
		lastPurchases: map[purchaseKey]time.Time{},
		buyers:        map[marketplace.MetricsId]map[domain.Address]time.Time{},
	}
}

func (s *marketState) clone() *marketState {
	n := &marketState{
		nextListingId: s.nextListingId,
		listings:      make(map[int64]*marketplace.Listing, len(s.listings)),
		metrics:       make(map[marketplace.MetricsId]*marketplace.MarketMetrics, len(s.metrics)),
		userListings:  make(map[domain.Address][]int64, len(s.userListings)),
		userPurchases: make(map[domain.Address][]int64, len(s.userPurchases)),
		tradeCounts:   make(map[domain.Address]int64, len(s.tradeCounts)),
		lastPurchases: make(map[purchaseKey]time.Time, len(s.lastPurchases)),
		buyers:        make(map[marketplace.MetricsId]map[domain.Address]time.Time, len(s.buyers)),
	}
	for id, l := range s.listings {
		cp := *l
		n.listings[id] = &cp
	}
	for id, m := range s.metrics {
		cp := *m
		n.metrics[id] = &cp
	}
	for a, ids := range s.userListings {
		n.userListings[a] = append([]int64{}, ids...)
	}
	for a, ids := range s.userPurchases {
		n.userPurchases[a] = append([]int64{}, ids...)
	}
	for a, c := range s.tradeCounts {
		n.tradeCounts[a] = c
	}
	for k, t := range s.lastPurchases {
		n.lastPurchases[k] = t
	}
	for id, bs := range s.buyers {
		cp := make(map[domain.Address]time.Time, len(bs))
		for a, t := range bs {
			cp[a] = t
		}
		n.buyers[id] = cp
	}
	return n
}

func (s *marketState) metricsFor(id marketplace.MetricsId) *marketplace.MarketMetrics {
	if m, ok := s.metrics[id]; ok {
		return m
	}
	m := &marketplace.MarketMetrics{
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		TotalVolume:     "0",
	}
	s.metrics[id] = m
	return m
}

// demandFor counts distinct buyers of the asset within the trailing window
func (s *marketState) demandFor(id marketplace.MetricsId, now time.Time) int64 {
	var n int64
	for _, t := range s.buyers[id] {
		if now.Sub(t) <= demandWindow {
			n++
		}
	}
	return n
}

// recordListing bumps the cumulative supply. Supply counts listings ever
// created, delisting never takes it back.
func (s *marketState) recordListing(id marketplace.MetricsId, now time.Time) *marketplace.MarketMetrics {
	m := s.metricsFor(id)
	m.Supply++
	m.Demand = s.demandFor(id, now)
	m.UpdatedAt = now
	return m
}

// recordTrade accrues the trade notional into the volume and quotes the
// unit price into last/high/low, the same scale the observed-price path
// writes
func (s *marketState) recordTrade(id marketplace.MetricsId, unitPrice, totalPrice *big.Int, buyer domain.Address, now time.Time) *marketplace.MarketMetrics {
	m := s.metricsFor(id)
	m.TotalTrades++
	vol, ok := new(big.Int).SetString(m.TotalVolume, 10)
	if !ok {
		vol = new(big.Int)
	}
	m.TotalVolume = new(big.Int).Add(vol, totalPrice).String()
	s.observe(m, unitPrice)
	if s.buyers[id] == nil {
		s.buyers[id] = map[domain.Address]time.Time{}
	}
	s.buyers[id][buyer.ToLower()] = now
	m.Demand = s.demandFor(id, now)
	m.UpdatedAt = now
	return m
}

// recordObservedPrice refreshes the price fields without counting a trade.
// Price updates used to flow through the trade path and inflate
// totalTrades/totalVolume, this path exists to keep them honest.
func (s *marketState) recordObservedPrice(id marketplace.MetricsId, price *big.Int, now time.Time) *marketplace.MarketMetrics {
	m := s.metricsFor(id)
	s.observe(m, price)
	m.Demand = s.demandFor(id, now)
	m.UpdatedAt = now
	return m
}

func (s *marketState) observe(m *marketplace.MarketMetrics, price *big.Int) {
	p := price.String()
	m.LastPrice = p
	if m.HighestPrice == "" || cmpPrice(p, m.HighestPrice) > 0 {
		m.HighestPrice = p
	}
	if m.LowestPrice == "" || cmpPrice(p, m.LowestPrice) < 0 {
		m.LowestPrice = p
	}
}

func cmpPrice(a, b string) int {
	x, _ := new(big.Int).SetString(a, 10)
	y, _ := new(big.Int).SetString(b, 10)
	if x == nil || y == nil {
		return 0
	}
	return x.Cmp(y)
}
