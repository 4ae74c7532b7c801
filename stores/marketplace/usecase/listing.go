package usecase

import (
	"math/big"
	"time"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/ptr"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
)

func (im *impl) List(c ctx.Ctx, p *marketplace.CreateListingParams) (*marketplace.Listing, error) {
	c, err := im.enter(c)
	if err != nil {
		return nil, err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.paused {
		return nil, domain.ErrPaused
	}

	seller := p.Seller.ToLower()
	contract := p.ContractAddress.ToLower()
	if seller.IsEmpty() || contract.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}
	if !p.Kind.IsValid() {
		return nil, domain.ErrInvalidAssetKind
	}
	price, ok := new(big.Int).SetString(p.Price, 10)
	if !ok || price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if price.Cmp(maxTokenAmount) > 0 {
		return nil, domain.ErrPriceOverflow
	}
	quantity := p.Quantity
	if p.Kind == marketplace.AssetKindUnique {
		quantity = 1
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	tokenId, err := p.TokenId.ToBig()
	if err != nil {
		return nil, domain.ErrInvalidNumberFormat
	}

	// custody moves into escrow before anything is recorded, a failed pull
	// leaves no trace
	switch p.Kind {
	case marketplace.AssetKindUnique:
		owner, err := im.unique.OwnerOf(c, contract, tokenId)
		if err != nil {
			return nil, err
		}
		if !owner.Equals(seller) {
			return nil, domain.ErrNotAssetOwner
		}
		approved, err := im.unique.GetApproved(c, contract, tokenId)
		if err != nil {
			return nil, err
		}
		if !approved.Equals(im.market.Escrow) {
			all, err := im.unique.IsApprovedForAll(c, contract, seller, im.market.Escrow)
			if err != nil {
				return nil, err
			}
			if !all {
				return nil, domain.ErrNotApproved
			}
		}
		if err := im.unique.TransferFrom(c, contract, seller, im.market.Escrow, tokenId); err != nil {
			return nil, err
		}
	case marketplace.AssetKindFungible:
		bal, err := im.holding.BalanceOf(c, contract, seller, tokenId)
		if err != nil {
			return nil, err
		}
		if bal.Cmp(big.NewInt(quantity)) < 0 {
			return nil, domain.ErrInsufficientBalance
		}
		all, err := im.holding.IsApprovedForAll(c, contract, seller, im.market.Escrow)
		if err != nil {
			return nil, err
		}
		if !all {
			return nil, domain.ErrNotApproved
		}
		if err := im.holding.SafeTransferFrom(c, contract, seller, im.market.Escrow, tokenId, big.NewInt(quantity)); err != nil {
			return nil, err
		}
	case marketplace.AssetKindOffchain:
		// validated by the game backend, no custody to take
	}

	now := time.Now().UTC()
	draft := im.state.clone()
	l := &marketplace.Listing{
		ListingId:       draft.nextListingId,
		Seller:          seller,
		ContractAddress: contract,
		TokenId:         p.TokenId,
		Price:           price.String(),
		Kind:            p.Kind,
		Quantity:        quantity,
		IsActive:        true,
		CreatedAt:       now,
	}
	draft.nextListingId++
	draft.listings[l.ListingId] = l
	draft.userListings[seller] = append(draft.userListings[seller], l.ListingId)
	m := draft.recordListing(marketplace.MetricsId{ContractAddress: contract, TokenId: p.TokenId}, now)
	im.state = draft

	im.mirror(c, l, m)
	im.record(c, &marketplace.Activity{
		ListingId:       l.ListingId,
		ContractAddress: contract,
		TokenId:         p.TokenId,
		Type:            marketplace.ActivityTypeList,
		Account:         seller,
		Quantity:        quantity,
		Price:           l.Price,
		PaymentToken:    im.market.PaymentToken,
		Time:            now,
	})
	im.notify(c, m)

	cp := *l
	return &cp, nil
}

func (im *impl) UpdatePrice(c ctx.Ctx, caller domain.Address, listingId int64, newPrice string) (*marketplace.Listing, error) {
	c, err := im.enter(c)
	if err != nil {
		return nil, err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.paused {
		return nil, domain.ErrPaused
	}

	price, ok := new(big.Int).SetString(newPrice, 10)
	if !ok || price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if price.Cmp(maxTokenAmount) > 0 {
		return nil, domain.ErrPriceOverflow
	}
	l, ok := im.state.listings[listingId]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !l.IsActive {
		return nil, domain.ErrListingNotActive
	}
	if !caller.Equals(l.Seller) {
		return nil, domain.ErrNotSeller
	}

	now := time.Now().UTC()
	draft := im.state.clone()
	updated := draft.listings[listingId]
	updated.Price = price.String()
	// a reprice is an observation, not a trade, volume and trade count
	// stay untouched
	m := draft.recordObservedPrice(marketplace.MetricsId{ContractAddress: l.ContractAddress, TokenId: l.TokenId}, price, now)
	im.state = draft

	im.patchMirror(c, updated.ToId(), marketplace.ListingPatchable{Price: ptr.String(updated.Price)})
	im.mirror(c, nil, m)
	im.record(c, &marketplace.Activity{
		ListingId:       listingId,
		ContractAddress: l.ContractAddress,
		TokenId:         l.TokenId,
		Type:            marketplace.ActivityTypeUpdateListing,
		Account:         caller.ToLower(),
		Quantity:        updated.Quantity,
		Price:           updated.Price,
		PaymentToken:    im.market.PaymentToken,
		Time:            now,
	})
	im.notify(c, m)

	cp := *updated
	return &cp, nil
}

func (im *impl) Delist(c ctx.Ctx, caller domain.Address, listingId int64) error {
	c, err := im.enter(c)
	if err != nil {
		return err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.paused {
		return domain.ErrPaused
	}

	l, ok := im.state.listings[listingId]
	if !ok {
		return domain.ErrNotFound
	}
	if !l.IsActive {
		return domain.ErrListingNotActive
	}
	// the owner can force a delist, everyone else has to be the seller
	if !caller.Equals(l.Seller) && !caller.Equals(im.market.Owner) {
		return domain.ErrNotSeller
	}

	tokenId, err := l.TokenId.ToBig()
	if err != nil {
		return domain.ErrInvalidNumberFormat
	}
	switch l.Kind {
	case marketplace.AssetKindUnique:
		if err := im.unique.TransferFrom(c, l.ContractAddress, im.market.Escrow, l.Seller, tokenId); err != nil {
			return err
		}
	case marketplace.AssetKindFungible:
		if l.Quantity > 0 {
			if err := im.holding.SafeTransferFrom(c, l.ContractAddress, im.market.Escrow, l.Seller, tokenId, big.NewInt(l.Quantity)); err != nil {
				return err
			}
		}
	}

	now := time.Now().UTC()
	draft := im.state.clone()
	closed := draft.listings[listingId]
	closed.IsActive = false
	im.state = draft

	im.patchMirror(c, closed.ToId(), marketplace.ListingPatchable{IsActive: ptr.Bool(false)})
	im.record(c, &marketplace.Activity{
		ListingId:       listingId,
		ContractAddress: l.ContractAddress,
		TokenId:         l.TokenId,
		Type:            marketplace.ActivityTypeCancelListing,
		Account:         caller.ToLower(),
		Quantity:        closed.Quantity,
		Price:           closed.Price,
		PaymentToken:    im.market.PaymentToken,
		Time:            now,
	})
	return nil
}
