package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/gameswap/goapi/base/abi"
	bCtx "github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/ledger"
	"github.com/gameswap/goapi/service/chain"
)

// Erc20 exposes the payment token through the ledger interface. Reads go
// through eth_call, writes are signed and sent by the escrow transactor.
type Erc20 struct {
	chainId      int32
	chainService chain.Client
	transactor   chain.Transactor
	abi          ethabi.ABI
}

func NewErc20(chainId domain.ChainId, chainService chain.Client, transactor chain.Transactor) ledger.Ledger {
	return &Erc20{
		chainId:      int32(chainId),
		chainService: chainService,
		transactor:   transactor,
		abi:          baseabi.ERC20TokenABI,
	}
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, token, account domain.Address) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(token.ToLowerStr()), nil, e.abi, "balanceOf", common.HexToAddress(account.ToLowerStr()))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Allowance(ctx bCtx.Ctx, token, owner, spender domain.Address) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(token.ToLowerStr()), nil, e.abi, "allowance", common.HexToAddress(owner.ToLowerStr()), common.HexToAddress(spender.ToLowerStr()))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) TransferFrom(ctx bCtx.Ctx, token, from, to domain.Address, amount *big.Int) (bool, error) {
	_, err := e.transactor.Transact(ctx, e.chainId, common.HexToAddress(token.ToLowerStr()), e.abi, "transferFrom",
		common.HexToAddress(from.ToLowerStr()), common.HexToAddress(to.ToLowerStr()), amount)
	if err == chain.ErrTxReverted {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Erc20) Transfer(ctx bCtx.Ctx, token, to domain.Address, amount *big.Int) (bool, error) {
	_, err := e.transactor.Transact(ctx, e.chainId, common.HexToAddress(token.ToLowerStr()), e.abi, "transfer",
		common.HexToAddress(to.ToLowerStr()), amount)
	if err == chain.ErrTxReverted {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}
