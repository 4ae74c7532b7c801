package registry

import (
	"math/big"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

// UniqueRegistry is the ownership/transfer surface for unique assets
// (erc721 shaped)
type UniqueRegistry interface {
	OwnerOf(c ctx.Ctx, contract domain.Address, tokenId *big.Int) (domain.Address, error)
	GetApproved(c ctx.Ctx, contract domain.Address, tokenId *big.Int) (domain.Address, error)
	IsApprovedForAll(c ctx.Ctx, contract, owner, operator domain.Address) (bool, error)
	TransferFrom(c ctx.Ctx, contract, from, to domain.Address, tokenId *big.Int) error
}

// HoldingRegistry is the balance/transfer surface for fungible listed
// assets (erc1155 shaped)
type HoldingRegistry interface {
	BalanceOf(c ctx.Ctx, contract, owner domain.Address, tokenId *big.Int) (*big.Int, error)
	IsApprovedForAll(c ctx.Ctx, contract, owner, operator domain.Address) (bool, error)
	SafeTransferFrom(c ctx.Ctx, contract, from, to domain.Address, tokenId, amount *big.Int) error
}
