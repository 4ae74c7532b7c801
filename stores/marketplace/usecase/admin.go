package usecase

import (
	"math/big"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/domain"
)

func (im *impl) Pause(c ctx.Ctx, caller domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	im.paused = true
	c.WithField("caller", caller.ToLower()).Warn("marketplace paused")
	return nil
}

func (im *impl) Unpause(c ctx.Ctx, caller domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	im.paused = false
	c.WithField("caller", caller.ToLower()).Warn("marketplace unpaused")
	return nil
}

func (im *impl) SetTreasury(c ctx.Ctx, caller, treasury domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	if treasury.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	im.market.Treasury = treasury.ToLower()
	return nil
}

func (im *impl) SetPaymentToken(c ctx.Ctx, caller, paymentToken domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	if paymentToken.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	im.market.PaymentToken = paymentToken.ToLower()
	return nil
}

// EmergencyWithdrawToken drains payment tokens held by the escrow to a
// recovery address. Available while paused, it bypasses listing state.
func (im *impl) EmergencyWithdrawToken(c ctx.Ctx, caller, to domain.Address, amount string) error {
	c, err := im.enter(c)
	if err != nil {
		return err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	if to.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	amt, ok := new(big.Int).SetString(amount, 10)
	if !ok || amt.Sign() <= 0 {
		return domain.ErrInvalidNumberFormat
	}
	sent, err := im.ledger.Transfer(c, im.market.PaymentToken, to.ToLower(), amt)
	if err != nil {
		return err
	}
	if !sent {
		return domain.ErrPaymentFailed
	}
	c.WithFields(log.Fields{"to": to.ToLower(), "amount": amount}).Warn("emergency token withdraw")
	return nil
}

func (im *impl) EmergencyWithdrawAsset(c ctx.Ctx, caller, contractAddress domain.Address, tokenId domain.TokenId, to domain.Address) error {
	c, err := im.enter(c)
	if err != nil {
		return err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	if err := im.requireOwner(caller); err != nil {
		return err
	}
	if to.IsEmpty() || contractAddress.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	id, err := tokenId.ToBig()
	if err != nil {
		return domain.ErrInvalidNumberFormat
	}
	if err := im.unique.TransferFrom(c, contractAddress.ToLower(), im.market.Escrow, to.ToLower(), id); err != nil {
		return err
	}
	c.WithFields(log.Fields{"to": to.ToLower(), "contract": contractAddress.ToLower(), "tokenId": tokenId}).Warn("emergency asset withdraw")
	return nil
}
