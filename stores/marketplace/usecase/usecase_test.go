package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
	mLedger "github.com/gameswap/goapi/domain/ledger/mocks"
	"github.com/gameswap/goapi/domain/marketplace"
	mMarketplace "github.com/gameswap/goapi/domain/marketplace/mocks"
	mRegistry "github.com/gameswap/goapi/domain/registry/mocks"
)

const (
	owner    = domain.Address("0x000000000000000000000000000000000000beef")
	treasury = domain.Address("0x000000000000000000000000000000000000fee5")
	payToken = domain.Address("0x0000000000000000000000000000000000000101")
	escrow   = domain.Address("0x0000000000000000000000000000000000000e5c")
	seller   = domain.Address("0x0000000000000000000000000000000000000aaa")
	buyer    = domain.Address("0x0000000000000000000000000000000000000bbb")
	gameNft  = domain.Address("0x0000000000000000000000000000000000000ccc")
)

type marketplaceSuite struct {
	suite.Suite

	listingRepo  *mMarketplace.ListingRepo
	metricsRepo  *mMarketplace.MetricsRepo
	activityRepo *mMarketplace.ActivityRepo
	ledger       *mLedger.Ledger
	unique       *mRegistry.UniqueRegistry
	holding      *mRegistry.HoldingRegistry
	im           marketplace.UseCase
}

func TestMarketplaceSuite(t *testing.T) {
	suite.Run(t, new(marketplaceSuite))
}

func (s *marketplaceSuite) SetupTest() {
	s.listingRepo = &mMarketplace.ListingRepo{}
	s.metricsRepo = &mMarketplace.MetricsRepo{}
	s.activityRepo = &mMarketplace.ActivityRepo{}
	s.ledger = &mLedger.Ledger{}
	s.unique = &mRegistry.UniqueRegistry{}
	s.holding = &mRegistry.HoldingRegistry{}

	s.listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]marketplace.Listing{}, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.listingRepo.On("Patch", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.metricsRepo.On("FindAll", mock.Anything).Return([]marketplace.MarketMetrics{}, nil)
	s.metricsRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.activityRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]marketplace.Activity{}, nil)
	s.activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	im, err := NewMarketplaceUseCase(ctx.Background(), &MarketplaceUseCaseCfg{
		ListingRepo:  s.listingRepo,
		MetricsRepo:  s.metricsRepo,
		ActivityRepo: s.activityRepo,
		Ledger:       s.ledger,
		Unique:       s.unique,
		Holding:      s.holding,
		Market: marketplace.Config{
			ChainId:      1,
			FeeBps:       250,
			Owner:        owner,
			Treasury:     treasury,
			PaymentToken: payToken,
			Escrow:       escrow,
		},
	})
	s.Require().NoError(err)
	s.im = im
}

func (s *marketplaceSuite) expectUniqueList(tokenId *big.Int) {
	s.unique.On("OwnerOf", mock.Anything, gameNft, tokenId).Return(seller, nil)
	s.unique.On("GetApproved", mock.Anything, gameNft, tokenId).Return(escrow, nil)
	s.unique.On("TransferFrom", mock.Anything, gameNft, seller, escrow, tokenId).Return(nil)
}

func (s *marketplaceSuite) expectFunds(account domain.Address, amount *big.Int) {
	s.ledger.On("BalanceOf", mock.Anything, payToken, account).Return(amount, nil)
	s.ledger.On("Allowance", mock.Anything, payToken, account, escrow).Return(amount, nil)
}

func (s *marketplaceSuite) listUnique(price string) *marketplace.Listing {
	s.expectUniqueList(big.NewInt(7))
	l, err := s.im.List(ctx.Background(), &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           price,
		Kind:            marketplace.AssetKindUnique,
		Quantity:        5, // ignored for unique assets
	})
	s.Require().NoError(err)
	return l
}

func (s *marketplaceSuite) TestListAssignsMonotonicIds() {
	c := ctx.Background()
	l1 := s.listUnique("1000")

	s.holding.On("BalanceOf", mock.Anything, gameNft, seller, big.NewInt(9)).Return(big.NewInt(100), nil)
	s.holding.On("IsApprovedForAll", mock.Anything, gameNft, seller, escrow).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, seller, escrow, big.NewInt(9), big.NewInt(100)).Return(nil)
	l2, err := s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "9",
		Price:           "10",
		Kind:            marketplace.AssetKindFungible,
		Quantity:        100,
	})
	s.Require().NoError(err)

	s.Equal(int64(1), l1.ListingId)
	s.Equal(int64(2), l2.ListingId)
	s.Equal(int64(1), l1.Quantity)
	s.True(l1.IsActive)

	ids, err := s.im.GetActiveListings(c)
	s.Require().NoError(err)
	s.Equal([]int64{1, 2}, ids)
}

func (s *marketplaceSuite) TestListRejectsBadParams() {
	c := ctx.Background()
	base := marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "1000",
		Kind:            marketplace.AssetKindUnique,
		Quantity:        1,
	}

	p := base
	p.Price = "0"
	_, err := s.im.List(c, &p)
	s.Equal(domain.ErrInvalidPrice, err)

	p = base
	p.Price = "-5"
	_, err = s.im.List(c, &p)
	s.Equal(domain.ErrInvalidPrice, err)

	p = base
	p.Price = new(big.Int).Lsh(big.NewInt(1), 256).String()
	_, err = s.im.List(c, &p)
	s.Equal(domain.ErrPriceOverflow, err)

	p = base
	p.Kind = "soulbound"
	_, err = s.im.List(c, &p)
	s.Equal(domain.ErrInvalidAssetKind, err)

	p = base
	p.Kind = marketplace.AssetKindFungible
	p.Quantity = 0
	_, err = s.im.List(c, &p)
	s.Equal(domain.ErrInvalidQuantity, err)
}

func (s *marketplaceSuite) TestListRequiresOwnershipAndApproval() {
	c := ctx.Background()
	tokenId := big.NewInt(7)
	s.unique.On("OwnerOf", mock.Anything, gameNft, tokenId).Return(buyer, nil).Once()
	_, err := s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "1000",
		Kind:            marketplace.AssetKindUnique,
	})
	s.Equal(domain.ErrNotAssetOwner, err)

	s.unique.On("OwnerOf", mock.Anything, gameNft, tokenId).Return(seller, nil)
	s.unique.On("GetApproved", mock.Anything, gameNft, tokenId).Return(domain.EmptyAddress, nil)
	s.unique.On("IsApprovedForAll", mock.Anything, gameNft, seller, escrow).Return(false, nil)
	_, err = s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "1000",
		Kind:            marketplace.AssetKindUnique,
	})
	s.Equal(domain.ErrNotApproved, err)
}

func (s *marketplaceSuite) TestBuyUniqueSplitsFee() {
	c := ctx.Background()
	l := s.listUnique("1000")

	s.expectFunds(buyer, big.NewInt(1000))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, treasury, big.NewInt(25)).Return(true, nil)
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, seller, big.NewInt(975)).Return(true, nil)
	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(7)).Return(nil)

	r, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Require().NoError(err)
	s.Equal("1000", r.TotalPrice)
	s.Equal("25", r.Fee)
	s.Equal("975", r.SellerAmount)
	s.Equal(seller, r.Seller)

	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.False(got.IsActive)
	s.Equal(int64(0), got.Quantity)
	s.ledger.AssertExpectations(s.T())
	s.unique.AssertExpectations(s.T())
}

func (s *marketplaceSuite) TestBuyFungiblePartially() {
	c := ctx.Background()
	s.holding.On("BalanceOf", mock.Anything, gameNft, seller, big.NewInt(9)).Return(big.NewInt(100), nil)
	s.holding.On("IsApprovedForAll", mock.Anything, gameNft, seller, escrow).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, seller, escrow, big.NewInt(9), big.NewInt(100)).Return(nil)
	l, err := s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "9",
		Price:           "10",
		Kind:            marketplace.AssetKindFungible,
		Quantity:        100,
	})
	s.Require().NoError(err)

	s.expectFunds(buyer, big.NewInt(400))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, treasury, big.NewInt(10)).Return(true, nil)
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, seller, big.NewInt(390)).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(9), big.NewInt(40)).Return(nil)

	r, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 40})
	s.Require().NoError(err)
	s.Equal("400", r.TotalPrice)
	s.Equal(int64(40), r.Quantity)

	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.True(got.IsActive)
	s.Equal(int64(60), got.Quantity)

	m, err := s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "9"})
	s.Require().NoError(err)
	s.Equal("400", m.TotalVolume)
	s.Equal(int64(1), m.TotalTrades)
	s.Equal("10", m.LastPrice)
	s.Equal(int64(1), m.Demand)

	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 61})
	s.Equal(domain.ErrInsufficientQuantity, err)
}

func (s *marketplaceSuite) TestTradeMetricsQuoteUnitPrice() {
	c := ctx.Background()
	s.holding.On("BalanceOf", mock.Anything, gameNft, seller, big.NewInt(9)).Return(big.NewInt(100), nil)
	s.holding.On("IsApprovedForAll", mock.Anything, gameNft, seller, escrow).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, seller, escrow, big.NewInt(9), big.NewInt(100)).Return(nil)
	l, err := s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "9",
		Price:           "10",
		Kind:            marketplace.AssetKindFungible,
		Quantity:        100,
	})
	s.Require().NoError(err)

	s.expectFunds(buyer, big.NewInt(400))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, treasury, big.NewInt(10)).Return(true, nil)
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, seller, big.NewInt(390)).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(9), big.NewInt(40)).Return(nil)
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 40})
	s.Require().NoError(err)

	// the trade quotes the unit price, the notional only accrues into the
	// volume
	m, err := s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "9"})
	s.Require().NoError(err)
	s.Equal("400", m.TotalVolume)
	s.Equal("10", m.LastPrice)
	s.Equal("10", m.HighestPrice)
	s.Equal("10", m.LowestPrice)

	// a reprice lands on the same scale
	_, err = s.im.UpdatePrice(c, seller, l.ListingId, "12")
	s.Require().NoError(err)
	m, err = s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "9"})
	s.Require().NoError(err)
	s.Equal("12", m.LastPrice)
	s.Equal("12", m.HighestPrice)
	s.Equal("10", m.LowestPrice)
	s.Equal("400", m.TotalVolume)
	s.Equal(int64(1), m.TotalTrades)
}

func (s *marketplaceSuite) TestBuyQuantityMustMatchRemaining() {
	c := ctx.Background()
	l := s.listUnique("1000")

	_, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 0})
	s.Equal(domain.ErrInvalidQuantity, err)
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: -1})
	s.Equal(domain.ErrInvalidQuantity, err)

	// a unique listing holds exactly one, asking for more is an oversell
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 5})
	s.Equal(domain.ErrInsufficientQuantity, err)

	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.True(got.IsActive)
	s.Equal(int64(1), got.Quantity)
}

func (s *marketplaceSuite) TestBuyRefundsWhenReleaseFails() {
	c := ctx.Background()
	l := s.listUnique("1000")

	s.expectFunds(buyer, big.NewInt(1000))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, treasury, big.NewInt(25)).Return(true, nil).Once()
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, seller, big.NewInt(975)).Return(true, nil).Once()
	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(7)).Return(domain.ErrTransferFailed).Once()
	// collected payments flow back to the buyer
	s.ledger.On("TransferFrom", mock.Anything, payToken, treasury, buyer, big.NewInt(25)).Return(true, nil).Once()
	s.ledger.On("TransferFrom", mock.Anything, payToken, seller, buyer, big.NewInt(975)).Return(true, nil).Once()

	_, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Equal(domain.ErrTransferFailed, err)

	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.True(got.IsActive)
	s.Equal(int64(1), got.Quantity)

	m, err := s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "7"})
	s.Require().NoError(err)
	s.Equal(int64(0), m.TotalTrades)
	s.ledger.AssertExpectations(s.T())
}

func (s *marketplaceSuite) TestBuyRejections() {
	c := ctx.Background()
	l := s.listUnique("1000")

	_, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: seller, ListingId: l.ListingId, Quantity: 1})
	s.Equal(domain.ErrSelfTrade, err)

	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: 42, Quantity: 1})
	s.Equal(domain.ErrNotFound, err)

	s.ledger.On("BalanceOf", mock.Anything, payToken, buyer).Return(big.NewInt(999), nil).Once()
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Equal(domain.ErrInsufficientBalance, err)

	s.ledger.On("BalanceOf", mock.Anything, payToken, buyer).Return(big.NewInt(1000), nil)
	s.ledger.On("Allowance", mock.Anything, payToken, buyer, escrow).Return(big.NewInt(10), nil).Once()
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Equal(domain.ErrInsufficientAllowance, err)

	// a failed settlement leaves the listing untouched
	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.True(got.IsActive)
}

func (s *marketplaceSuite) TestSoldListingStaysClosed() {
	c := ctx.Background()
	l := s.listUnique("1000")
	s.expectFunds(buyer, big.NewInt(1000))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, mock.Anything, mock.Anything).Return(true, nil)
	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(7)).Return(nil)
	_, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Require().NoError(err)

	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Equal(domain.ErrListingNotActive, err)
	err = s.im.Delist(c, seller, l.ListingId)
	s.Equal(domain.ErrListingNotActive, err)
	_, err = s.im.UpdatePrice(c, seller, l.ListingId, "2000")
	s.Equal(domain.ErrListingNotActive, err)
}

func (s *marketplaceSuite) TestUpdatePriceIsNotATrade() {
	c := ctx.Background()
	l := s.listUnique("1000")

	_, err := s.im.UpdatePrice(c, buyer, l.ListingId, "2000")
	s.Equal(domain.ErrNotSeller, err)

	updated, err := s.im.UpdatePrice(c, seller, l.ListingId, "2000")
	s.Require().NoError(err)
	s.Equal("2000", updated.Price)

	m, err := s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "7"})
	s.Require().NoError(err)
	s.Equal(int64(0), m.TotalTrades)
	s.Equal("0", m.TotalVolume)
	s.Equal("2000", m.LastPrice)
	s.Equal("2000", m.HighestPrice)
	s.Equal("2000", m.LowestPrice)
}

func (s *marketplaceSuite) TestDelistReturnsCustody() {
	c := ctx.Background()
	l := s.listUnique("1000")

	err := s.im.Delist(c, buyer, l.ListingId)
	s.Equal(domain.ErrNotSeller, err)

	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, seller, big.NewInt(7)).Return(nil).Once()
	s.Require().NoError(s.im.Delist(c, seller, l.ListingId))

	got, err := s.im.GetListing(c, l.ListingId)
	s.Require().NoError(err)
	s.False(got.IsActive)

	// the mirror only patches the deactivated flag
	s.listingRepo.AssertCalled(s.T(), "Patch", mock.Anything, marketplace.ListingId{ListingId: l.ListingId},
		mock.MatchedBy(func(p marketplace.ListingPatchable) bool {
			return p.IsActive != nil && !*p.IsActive
		}))

	// listing ids are never reused after a delist
	l2 := s.listUnique("500")
	s.Equal(l.ListingId+1, l2.ListingId)
}

func (s *marketplaceSuite) TestSupplyIsCumulative() {
	c := ctx.Background()
	l := s.listUnique("1000")
	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, seller, big.NewInt(7)).Return(nil).Once()
	s.Require().NoError(s.im.Delist(c, seller, l.ListingId))
	s.listUnique("500")

	m, err := s.im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "7"})
	s.Require().NoError(err)
	s.Equal(int64(2), m.Supply)
}

func (s *marketplaceSuite) TestPauseGatesMutations() {
	c := ctx.Background()
	s.Equal(domain.ErrNotOwner, s.im.Pause(c, seller))

	s.Require().NoError(s.im.Pause(c, owner))
	s.True(s.im.IsPaused(c))

	_, err := s.im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "1000",
		Kind:            marketplace.AssetKindUnique,
	})
	s.Equal(domain.ErrPaused, err)
	_, err = s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: 1, Quantity: 1})
	s.Equal(domain.ErrPaused, err)

	// reads and unpause stay available
	_, err = s.im.GetActiveListings(c)
	s.NoError(err)
	s.Require().NoError(s.im.Unpause(c, owner))
	s.False(s.im.IsPaused(c))
	s.listUnique("1000")
}

func (s *marketplaceSuite) TestAdminConfigAndWithdraw() {
	c := ctx.Background()
	s.Equal(domain.ErrNotOwner, s.im.SetTreasury(c, seller, buyer))
	s.Require().NoError(s.im.SetTreasury(c, owner, buyer))
	s.Equal(domain.ErrInvalidAddress, s.im.SetPaymentToken(c, owner, domain.EmptyAddress))

	s.Equal(domain.ErrNotOwner, s.im.EmergencyWithdrawToken(c, seller, owner, "10"))
	s.ledger.On("Transfer", mock.Anything, payToken, owner, big.NewInt(10)).Return(true, nil)
	s.Require().NoError(s.im.EmergencyWithdrawToken(c, owner, owner, "10"))

	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, owner, big.NewInt(7)).Return(nil)
	s.Require().NoError(s.im.EmergencyWithdrawAsset(c, owner, gameNft, "7", owner))
}

func (s *marketplaceSuite) TestReentrantCallIsRejected() {
	tokenId := big.NewInt(7)
	var nested error
	s.unique.On("OwnerOf", mock.Anything, gameNft, tokenId).Return(seller, nil).Run(func(args mock.Arguments) {
		inner := args.Get(0).(ctx.Ctx)
		_, nested = s.im.List(inner, &marketplace.CreateListingParams{
			Seller:          seller,
			ContractAddress: gameNft,
			TokenId:         "7",
			Price:           "1000",
			Kind:            marketplace.AssetKindUnique,
		})
	})
	s.unique.On("GetApproved", mock.Anything, gameNft, tokenId).Return(escrow, nil)
	s.unique.On("TransferFrom", mock.Anything, gameNft, seller, escrow, tokenId).Return(nil)

	_, err := s.im.List(ctx.Background(), &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "1000",
		Kind:            marketplace.AssetKindUnique,
	})
	s.Require().NoError(err)
	s.Equal(domain.ErrReentrantCall, nested)
}

func (s *marketplaceSuite) TestUserStats() {
	c := ctx.Background()
	l := s.listUnique("1000")
	s.expectFunds(buyer, big.NewInt(1000))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, mock.Anything, mock.Anything).Return(true, nil)
	s.unique.On("TransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(7)).Return(nil)
	_, err := s.im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: l.ListingId, Quantity: 1})
	s.Require().NoError(err)

	sellerStats, err := s.im.GetUserStats(c, seller)
	s.Require().NoError(err)
	s.Equal([]int64{l.ListingId}, sellerStats.Listings)
	s.Empty(sellerStats.Purchases)
	s.Equal(int64(1), sellerStats.TradeCount)

	buyerStats, err := s.im.GetUserStats(c, buyer)
	s.Require().NoError(err)
	s.Empty(buyerStats.Listings)
	s.Equal([]int64{l.ListingId}, buyerStats.Purchases)
	s.Equal(int64(1), buyerStats.TradeCount)
}

func (s *marketplaceSuite) TestRehydratesFromMirror() {
	listingRepo := &mMarketplace.ListingRepo{}
	metricsRepo := &mMarketplace.MetricsRepo{}
	activityRepo := &mMarketplace.ActivityRepo{}
	listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]marketplace.Listing{
		{ListingId: 3, Seller: seller, ContractAddress: gameNft, TokenId: "7", Price: "1000", Kind: marketplace.AssetKindUnique, Quantity: 1, IsActive: true},
		{ListingId: 5, Seller: seller, ContractAddress: gameNft, TokenId: "9", Price: "10", Kind: marketplace.AssetKindFungible, Quantity: 0, IsActive: false},
	}, nil)
	metricsRepo.On("FindAll", mock.Anything).Return([]marketplace.MarketMetrics{
		{ContractAddress: gameNft, TokenId: "9", TotalVolume: "400", TotalTrades: 1, Supply: 1},
	}, nil)
	activityRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]marketplace.Activity{
		{ListingId: 5, ContractAddress: gameNft, TokenId: "9", Type: marketplace.ActivityTypeBuy, Account: buyer, To: seller, Quantity: 40, Price: "400"},
	}, nil)
	listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	metricsRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	im, err := NewMarketplaceUseCase(ctx.Background(), &MarketplaceUseCaseCfg{
		ListingRepo:  listingRepo,
		MetricsRepo:  metricsRepo,
		ActivityRepo: activityRepo,
		Ledger:       s.ledger,
		Unique:       s.unique,
		Holding:      s.holding,
		Market: marketplace.Config{
			ChainId:      1,
			FeeBps:       250,
			Owner:        owner,
			Treasury:     treasury,
			PaymentToken: payToken,
			Escrow:       escrow,
		},
	})
	s.Require().NoError(err)

	c := ctx.Background()
	ids, err := im.GetActiveListings(c)
	s.Require().NoError(err)
	s.Equal([]int64{3}, ids)

	m, err := im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "9"})
	s.Require().NoError(err)
	s.Equal("400", m.TotalVolume)

	stats, err := im.GetUserStats(c, buyer)
	s.Require().NoError(err)
	s.Equal([]int64{5}, stats.Purchases)
	s.Equal(int64(1), stats.TradeCount)

	// the next listing id continues after the highest mirrored id
	s.expectUniqueList(big.NewInt(7))
	l, err := im.List(c, &marketplace.CreateListingParams{
		Seller:          seller,
		ContractAddress: gameNft,
		TokenId:         "7",
		Price:           "500",
		Kind:            marketplace.AssetKindUnique,
	})
	s.Require().NoError(err)
	s.Equal(int64(6), l.ListingId)
}

func (s *marketplaceSuite) TestDemandCountsTrailingWindowOnly() {
	staleBuyer := domain.Address("0x0000000000000000000000000000000000000ddd")
	freshBuyer := domain.Address("0x0000000000000000000000000000000000000eee")
	now := time.Now().UTC()

	listingRepo := &mMarketplace.ListingRepo{}
	metricsRepo := &mMarketplace.MetricsRepo{}
	activityRepo := &mMarketplace.ActivityRepo{}
	listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]marketplace.Listing{
		{ListingId: 5, Seller: seller, ContractAddress: gameNft, TokenId: "9", Price: "10", Kind: marketplace.AssetKindFungible, Quantity: 20, IsActive: true},
	}, nil)
	metricsRepo.On("FindAll", mock.Anything).Return([]marketplace.MarketMetrics{}, nil)
	activityRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]marketplace.Activity{
		{ListingId: 5, ContractAddress: gameNft, TokenId: "9", Type: marketplace.ActivityTypeBuy, Account: staleBuyer, To: seller, Quantity: 40, Price: "400", Time: now.Add(-25 * time.Hour)},
		{ListingId: 5, ContractAddress: gameNft, TokenId: "9", Type: marketplace.ActivityTypeBuy, Account: freshBuyer, To: seller, Quantity: 40, Price: "400", Time: now.Add(-time.Hour)},
	}, nil)
	listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	metricsRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	im, err := NewMarketplaceUseCase(ctx.Background(), &MarketplaceUseCaseCfg{
		ListingRepo:  listingRepo,
		MetricsRepo:  metricsRepo,
		ActivityRepo: activityRepo,
		Ledger:       s.ledger,
		Unique:       s.unique,
		Holding:      s.holding,
		Market: marketplace.Config{
			ChainId:      1,
			FeeBps:       250,
			Owner:        owner,
			Treasury:     treasury,
			PaymentToken: payToken,
			Escrow:       escrow,
		},
	})
	s.Require().NoError(err)

	c := ctx.Background()
	s.expectFunds(buyer, big.NewInt(10))
	s.ledger.On("TransferFrom", mock.Anything, payToken, buyer, seller, big.NewInt(10)).Return(true, nil)
	s.holding.On("SafeTransferFrom", mock.Anything, gameNft, escrow, buyer, big.NewInt(9), big.NewInt(1)).Return(nil)
	_, err = im.Buy(c, &marketplace.BuyParams{Buyer: buyer, ListingId: 5, Quantity: 1})
	s.Require().NoError(err)

	// the buyer from 25h ago fell out of the window, the recent one and
	// the new one remain
	m, err := im.GetMetrics(c, marketplace.MetricsId{ContractAddress: gameNft, TokenId: "9"})
	s.Require().NoError(err)
	s.Equal(int64(2), m.Demand)
}
