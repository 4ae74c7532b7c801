package ledger

import (
	"math/big"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
)

// Ledger is the fungible payment-token surface the settlement protocol
// spends through. A false return without error means the transfer was
// rejected by the token, both cases abort the enclosing call.
type Ledger interface {
	BalanceOf(c ctx.Ctx, token, account domain.Address) (*big.Int, error)
	Allowance(c ctx.Ctx, token, owner, spender domain.Address) (*big.Int, error)
	TransferFrom(c ctx.Ctx, token, from, to domain.Address, amount *big.Int) (bool, error)
	Transfer(c ctx.Ctx, token, to domain.Address, amount *big.Int) (bool, error)
}
