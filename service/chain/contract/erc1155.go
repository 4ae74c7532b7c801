package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/gameswap/goapi/base/abi"
	bCtx "github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/registry"
	"github.com/gameswap/goapi/service/chain"
)

// Erc1155 exposes fungible asset contracts through the registry interface
type Erc1155 struct {
	chainId            int32
	chainService       chain.Client
	transactor         chain.Transactor
	abi                ethabi.ABI
	erc1155InterfaceId [4]byte
}

func NewErc1155(chainId domain.ChainId, chainService chain.Client, transactor chain.Transactor) *Erc1155 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("d9b67a26"))
	return &Erc1155{
		chainId:            int32(chainId),
		chainService:       chainService,
		transactor:         transactor,
		abi:                baseabi.ERC1155TokenABI,
		erc1155InterfaceId: interfaceId,
	}
}

var _ registry.HoldingRegistry = (*Erc1155)(nil)

func (e *Erc1155) Supports1155Interface(ctx bCtx.Ctx, addr domain.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr.ToLowerStr()), nil, e.abi, "supportsInterface", e.erc1155InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc1155) BalanceOf(ctx bCtx.Ctx, contract, owner domain.Address, tokenId *big.Int) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), nil, e.abi, "balanceOf",
		common.HexToAddress(owner.ToLowerStr()), tokenId)
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc1155) IsApprovedForAll(ctx bCtx.Ctx, contract, owner, operator domain.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), nil, e.abi, "isApprovedForAll",
		common.HexToAddress(owner.ToLowerStr()), common.HexToAddress(operator.ToLowerStr()))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc1155) SafeTransferFrom(ctx bCtx.Ctx, contract, from, to domain.Address, tokenId, amount *big.Int) error {
	_, err := e.transactor.Transact(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), e.abi, "safeTransferFrom",
		common.HexToAddress(from.ToLowerStr()), common.HexToAddress(to.ToLowerStr()), tokenId, amount, []byte{})
	if err == chain.ErrTxReverted {
		return domain.ErrTransferFailed
	}
	return err
}
