package marketplace

import (
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

// Config is the owner-mutable marketplace configuration. FeeBps is the
// platform fee in basis points, fee = price * FeeBps / 10000.
type Config struct {
	ChainId      domain.ChainId
	FeeBps       int64
	Owner        domain.Address
	Treasury     domain.Address
	PaymentToken domain.Address
	// Escrow is the custody address the engine transacts from
	Escrow domain.Address
}

type CreateListingParams struct {
	Seller          domain.Address `json:"-"`
	ContractAddress domain.Address `json:"contractAddress" validate:"required"`
	TokenId         domain.TokenId `json:"tokenId" validate:"required"`
	Price           string         `json:"price" validate:"required"`
	Kind            AssetKind      `json:"kind" validate:"required"`
	Quantity        int64          `json:"quantity"`
}

type BuyParams struct {
	Buyer     domain.Address `json:"-"`
	ListingId int64          `json:"-"`
	Quantity  int64          `json:"quantity"`
}

// Receipt is the settlement breakdown of one successful buy.
// Fee + SellerAmount always equals TotalPrice.
type Receipt struct {
	ListingId    int64          `json:"listingId"`
	Buyer        domain.Address `json:"buyer"`
	Seller       domain.Address `json:"seller"`
	Quantity     int64          `json:"quantity"`
	TotalPrice   string         `json:"totalPrice"`
	Fee          string         `json:"fee"`
	SellerAmount string         `json:"sellerAmount"`
	Time         time.Time      `json:"time"`
}

// UserStats is the per-account bookkeeping kept by the engine
type UserStats struct {
	Address    domain.Address `json:"address"`
	TradeCount int64          `json:"tradeCount"`
	Listings   []int64        `json:"listings"`
	Purchases  []int64        `json:"purchases"`
}

type UseCase interface {
	// mutating entry points, serialized and guarded against reentry
	List(c ctx.Ctx, p *CreateListingParams) (*Listing, error)
	Buy(c ctx.Ctx, p *BuyParams) (*Receipt, error)
	UpdatePrice(c ctx.Ctx, caller domain.Address, listingId int64, newPrice string) (*Listing, error)
	Delist(c ctx.Ctx, caller domain.Address, listingId int64) error

	// read surface
	GetListing(c ctx.Ctx, listingId int64) (*Listing, error)
	GetActiveListings(c ctx.Ctx) ([]int64, error)
	GetUserStats(c ctx.Ctx, address domain.Address) (*UserStats, error)
	GetMetrics(c ctx.Ctx, id MetricsId) (*MarketMetrics, error)
	GetActivities(c ctx.Ctx, opts ...ActivityFindAllOptions) ([]Activity, error)
	IsPaused(c ctx.Ctx) bool

	// administrative surface, owner gated
	Pause(c ctx.Ctx, caller domain.Address) error
	Unpause(c ctx.Ctx, caller domain.Address) error
	SetTreasury(c ctx.Ctx, caller, treasury domain.Address) error
	SetPaymentToken(c ctx.Ctx, caller, paymentToken domain.Address) error
	EmergencyWithdrawToken(c ctx.Ctx, caller, to domain.Address, amount string) error
	EmergencyWithdrawAsset(c ctx.Ctx, caller, contractAddress domain.Address, tokenId domain.TokenId, to domain.Address) error
}
