package usecase

import (
	"math/big"
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
)

var feeDenominator = big.NewInt(10000)

// Buy settles a purchase against an active listing. Settlement order is
// fixed: platform fee to the treasury, remainder to the seller, then the
// asset leaves escrow. Any failed step aborts the whole call with no
// recorded effect.
func (im *impl) Buy(c ctx.Ctx, p *marketplace.BuyParams) (*marketplace.Receipt, error) {
	c, err := im.enter(c)
	if err != nil {
		return nil, err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.paused {
		return nil, domain.ErrPaused
	}

	buyer := p.Buyer.ToLower()
	if buyer.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}
	l, ok := im.state.listings[p.ListingId]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !l.IsActive {
		return nil, domain.ErrListingNotActive
	}
	if buyer.Equals(l.Seller) {
		return nil, domain.ErrSelfTrade
	}
	// the caller's quantity is taken at face value, a unique listing holds
	// exactly one so anything above that is an oversell
	quantity := p.Quantity
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity > l.Quantity {
		return nil, domain.ErrInsufficientQuantity
	}
	tokenId, err := l.TokenId.ToBig()
	if err != nil {
		return nil, domain.ErrInvalidNumberFormat
	}

	unitPrice, err := l.PriceBig()
	if err != nil {
		return nil, err
	}
	totalPrice := new(big.Int).Mul(unitPrice, big.NewInt(quantity))
	if totalPrice.Cmp(maxTokenAmount) > 0 {
		return nil, domain.ErrPriceOverflow
	}
	fee := new(big.Int).Div(new(big.Int).Mul(totalPrice, big.NewInt(im.market.FeeBps)), feeDenominator)
	sellerAmount := new(big.Int).Sub(totalPrice, fee)

	bal, err := im.ledger.BalanceOf(c, im.market.PaymentToken, buyer)
	if err != nil {
		return nil, err
	}
	if bal.Cmp(totalPrice) < 0 {
		return nil, domain.ErrInsufficientBalance
	}
	allowance, err := im.ledger.Allowance(c, im.market.PaymentToken, buyer, im.market.Escrow)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(totalPrice) < 0 {
		return nil, domain.ErrInsufficientAllowance
	}

	if fee.Sign() > 0 {
		ok, err := im.ledger.TransferFrom(c, im.market.PaymentToken, buyer, im.market.Treasury, fee)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrPaymentFailed
		}
	}
	if sellerAmount.Sign() > 0 {
		ok, err := im.ledger.TransferFrom(c, im.market.PaymentToken, buyer, l.Seller, sellerAmount)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrPaymentFailed
		}
	}

	var releaseErr error
	switch l.Kind {
	case marketplace.AssetKindUnique:
		releaseErr = im.unique.TransferFrom(c, l.ContractAddress, im.market.Escrow, buyer, tokenId)
	case marketplace.AssetKindFungible:
		releaseErr = im.holding.SafeTransferFrom(c, l.ContractAddress, im.market.Escrow, buyer, tokenId, big.NewInt(quantity))
	case marketplace.AssetKindOffchain:
		// delivery happens in the game backend, settlement alone closes it
	}
	if releaseErr != nil {
		// payments already landed, claw them back before aborting
		im.refund(c, buyer, l.Seller, fee, sellerAmount)
		return nil, releaseErr
	}

	now := time.Now().UTC()
	draft := im.state.clone()
	sold := draft.listings[p.ListingId]
	sold.Quantity -= quantity
	if sold.Quantity == 0 {
		sold.IsActive = false
	}
	draft.userPurchases[buyer] = append(draft.userPurchases[buyer], p.ListingId)
	draft.tradeCounts[buyer]++
	draft.tradeCounts[sold.Seller]++
	draft.lastPurchases[purchaseKey{buyer, p.ListingId}] = now
	m := draft.recordTrade(marketplace.MetricsId{ContractAddress: l.ContractAddress, TokenId: l.TokenId}, unitPrice, totalPrice, buyer, now)
	im.state = draft

	im.mirror(c, sold, m)
	im.record(c, &marketplace.Activity{
		ListingId:       p.ListingId,
		ContractAddress: l.ContractAddress,
		TokenId:         l.TokenId,
		Type:            marketplace.ActivityTypeBuy,
		Account:         buyer,
		To:              sold.Seller,
		Quantity:        quantity,
		Price:           totalPrice.String(),
		PaymentToken:    im.market.PaymentToken,
		Time:            now,
	})
	im.record(c, &marketplace.Activity{
		ListingId:       p.ListingId,
		ContractAddress: l.ContractAddress,
		TokenId:         l.TokenId,
		Type:            marketplace.ActivityTypeSold,
		Account:         sold.Seller,
		To:              buyer,
		Quantity:        quantity,
		Price:           totalPrice.String(),
		PaymentToken:    im.market.PaymentToken,
		Time:            now,
	})
	im.notify(c, m)

	return &marketplace.Receipt{
		ListingId:    p.ListingId,
		Buyer:        buyer,
		Seller:       sold.Seller,
		Quantity:     quantity,
		TotalPrice:   totalPrice.String(),
		Fee:          fee.String(),
		SellerAmount: sellerAmount.String(),
		Time:         now,
	}, nil
}

// refund returns collected payments to the buyer after a failed asset
// release. Best effort: the treasury keeps an allowance for the escrow, but
// a seller who revoked theirs cannot be debited, that leg is logged for
// manual settlement.
func (im *impl) refund(c ctx.Ctx, buyer, seller domain.Address, fee, sellerAmount *big.Int) {
	if fee.Sign() > 0 {
		if ok, err := im.ledger.TransferFrom(c, im.market.PaymentToken, im.market.Treasury, buyer, fee); err != nil || !ok {
			c.WithFields(log.Fields{"err": err, "buyer": buyer, "amount": fee.String()}).Error("fee refund failed")
		}
	}
	if sellerAmount.Sign() > 0 {
		if ok, err := im.ledger.TransferFrom(c, im.market.PaymentToken, seller, buyer, sellerAmount); err != nil || !ok {
			c.WithFields(log.Fields{"err": err, "buyer": buyer, "amount": sellerAmount.String()}).Error("seller refund failed")
		}
	}
}
