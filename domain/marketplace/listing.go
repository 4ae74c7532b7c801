package marketplace

import (
	"math/big"
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

type AssetKind string

const (
	// AssetKindUnique is a one-of-a-kind item, quantity is always 1
	AssetKindUnique AssetKind = "unique"
	// AssetKindFungible is a stackable token, sold by quantity
	AssetKindFungible AssetKind = "fungible"
	// AssetKindOffchain is an in-game item validated by an external
	// backend, the escrow never takes custody of it
	AssetKindOffchain AssetKind = "offchain"
)

func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindUnique, AssetKindFungible, AssetKindOffchain:
		return true
	}
	return false
}

type Listing struct {
	ListingId       int64          `json:"listingId" bson:"listingId"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	// unit price in the smallest payment token unit, decimal string
	Price     string    `json:"price" bson:"price"`
	Kind      AssetKind `json:"kind" bson:"kind"`
	Quantity  int64     `json:"quantity" bson:"quantity"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (l *Listing) LowerCase() {
	l.Seller = l.Seller.ToLower()
	l.ContractAddress = l.ContractAddress.ToLower()
}

func (l *Listing) PriceBig() (*big.Int, error) {
	p, ok := new(big.Int).SetString(l.Price, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return p, nil
}

func (l *Listing) ToId() ListingId {
	return ListingId{ListingId: l.ListingId}
}

type ListingId struct {
	ListingId int64 `json:"listingId" bson:"listingId"`
}

type ListingPatchable struct {
	Price    *string `json:"price" bson:"price,omitempty"`
	Quantity *int64  `json:"quantity" bson:"quantity,omitempty"`
	IsActive *bool   `json:"isActive" bson:"isActive,omitempty"`
}

type listingFindAllOptions struct {
	SortBy          *string         `bson:"-"`
	SortDir         *domain.SortDir `bson:"-"`
	Offset          *int32          `bson:"-"`
	Limit           *int32          `bson:"-"`
	Seller          *domain.Address `bson:"seller"`
	ContractAddress *domain.Address `bson:"contractAddress"`
	TokenId         *domain.TokenId `bson:"tokenId"`
	Kind            *AssetKind      `bson:"kind"`
	IsActive        *bool           `bson:"isActive"`
}

type ListingFindAllOptions func(*listingFindAllOptions) error

func GetListingFindAllOptions(opts ...ListingFindAllOptions) (listingFindAllOptions, error) {
	res := listingFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func ListingWithSort(sortby string, sortdir domain.SortDir) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

func ListingWithPagination(offset int32, limit int32) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func ListingWithSeller(seller domain.Address) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func ListingWithAsset(contractAddress domain.Address, tokenId domain.TokenId) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.ContractAddress = contractAddress.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func ListingWithKind(kind AssetKind) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func ListingWithIsActive(isActive bool) ListingFindAllOptions {
	return func(options *listingFindAllOptions) error {
		options.IsActive = &isActive
		return nil
	}
}

type ListingRepo interface {
	FindAll(c ctx.Ctx, opts ...ListingFindAllOptions) ([]Listing, error)
	Count(c ctx.Ctx, opts ...ListingFindAllOptions) (int, error)
	Upsert(c ctx.Ctx, l *Listing) error
	Patch(c ctx.Ctx, id ListingId, patch ListingPatchable) error
}
