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

// Erc721 exposes unique asset contracts through the registry interface
type Erc721 struct {
	chainId           int32
	chainService      chain.Client
	transactor        chain.Transactor
	abi               ethabi.ABI
	erc721InterfaceId [4]byte
}

func NewErc721(chainId domain.ChainId, chainService chain.Client, transactor chain.Transactor) *Erc721 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("80ac58cd"))
	return &Erc721{
		chainId:           int32(chainId),
		chainService:      chainService,
		transactor:        transactor,
		abi:               baseabi.ERC721TokenABI,
		erc721InterfaceId: interfaceId,
	}
}

var _ registry.UniqueRegistry = (*Erc721)(nil)

func (e *Erc721) Supports721Interface(ctx bCtx.Ctx, addr domain.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(addr.ToLowerStr()), nil, e.abi, "supportsInterface", e.erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, contract domain.Address, tokenId *big.Int) (domain.Address, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), nil, e.abi, "ownerOf", tokenId)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).String()).ToLower(), nil
}

func (e *Erc721) GetApproved(ctx bCtx.Ctx, contract domain.Address, tokenId *big.Int) (domain.Address, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), nil, e.abi, "getApproved", tokenId)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).String()).ToLower(), nil
}

func (e *Erc721) IsApprovedForAll(ctx bCtx.Ctx, contract, owner, operator domain.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), nil, e.abi, "isApprovedForAll",
		common.HexToAddress(owner.ToLowerStr()), common.HexToAddress(operator.ToLowerStr()))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) TransferFrom(ctx bCtx.Ctx, contract, from, to domain.Address, tokenId *big.Int) error {
	_, err := e.transactor.Transact(ctx, e.chainId, common.HexToAddress(contract.ToLowerStr()), e.abi, "transferFrom",
		common.HexToAddress(from.ToLowerStr()), common.HexToAddress(to.ToLowerStr()), tokenId)
	if err == chain.ErrTxReverted {
		return domain.ErrTransferFailed
	}
	return err
}
