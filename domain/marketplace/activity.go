package marketplace

import (
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

type ActivityType string

const (
	ActivityTypeList          ActivityType = "list"
	ActivityTypeUpdateListing ActivityType = "updateListing"
	ActivityTypeCancelListing ActivityType = "cancelListing"
	ActivityTypeBuy           ActivityType = "buy"
	ActivityTypeSold          ActivityType = "sold"
)

// Activity is one entry of the durable per-account marketplace feed
type Activity struct {
	ListingId       int64          `json:"listingId" bson:"listingId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Type            ActivityType   `json:"type" bson:"type"`
	Account         domain.Address `json:"account" bson:"account"`
	To              domain.Address `json:"to" bson:"to"`
	Quantity        int64          `json:"quantity" bson:"quantity"`
	Price           string         `json:"price" bson:"price"`
	PaymentToken    domain.Address `json:"paymentToken" bson:"paymentToken"`
	Time            time.Time      `json:"time" bson:"time"`
}

type activityFindAllOptions struct {
	SortBy          *string         `bson:"-"`
	SortDir         *domain.SortDir `bson:"-"`
	Offset          *int32          `bson:"-"`
	Limit           *int32          `bson:"-"`
	Account         *domain.Address `bson:"account"`
	ContractAddress *domain.Address `bson:"contractAddress"`
	TokenId         *domain.TokenId `bson:"tokenId"`
	Type            *ActivityType   `bson:"type"`
}

type ActivityFindAllOptions func(*activityFindAllOptions) error

func GetActivityFindAllOptions(opts ...ActivityFindAllOptions) (activityFindAllOptions, error) {
	res := activityFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func ActivityWithSort(sortby string, sortdir domain.SortDir) ActivityFindAllOptions {
	return func(options *activityFindAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

func ActivityWithPagination(offset int32, limit int32) ActivityFindAllOptions {
	return func(options *activityFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func ActivityWithAccount(account domain.Address) ActivityFindAllOptions {
	return func(options *activityFindAllOptions) error {
		options.Account = account.ToLowerPtr()
		return nil
	}
}

func ActivityWithAsset(contractAddress domain.Address, tokenId domain.TokenId) ActivityFindAllOptions {
	return func(options *activityFindAllOptions) error {
		options.ContractAddress = contractAddress.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func ActivityWithType(t ActivityType) ActivityFindAllOptions {
	return func(options *activityFindAllOptions) error {
		options.Type = &t
		return nil
	}
}

type ActivityRepo interface {
	FindAll(c ctx.Ctx, opts ...ActivityFindAllOptions) ([]Activity, error)
	Insert(c ctx.Ctx, a *Activity) error
}
