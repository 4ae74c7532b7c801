package chain

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/xerrors"

	bCtx "github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/log"
)

// ErrTxReverted means the transaction was mined but its status is failed
var ErrTxReverted = xerrors.New("transaction reverted")

type TransactorCfg struct {
	RpcUrls map[int32]string
	// PrivateKey is the hex encoded key of the escrow account
	PrivateKey string
}

// Transactor signs and sends state-changing contract calls from the escrow
// account and waits until they are mined
type Transactor interface {
	Address() common.Address
	Transact(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (*types.Receipt, error)
}

type transactorImpl struct {
	clients map[int32]*ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewTransactor(ctx bCtx.Ctx, cfg *TransactorCfg) (Transactor, error) {
	key, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	clients := make(map[int32]*ethclient.Client)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			continue
		}
		clients[chainId] = client
	}
	return &transactorImpl{
		clients: clients,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (t *transactorImpl) Address() common.Address {
	return t.address
}

func (t *transactorImpl) Transact(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (*types.Receipt, error) {
	client, ok := t.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}

	nonce, err := client.PendingNonceAt(ctx, t.address)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return nil, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasPrice failed")
		return nil, err
	}
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: t.address,
		To:   &addr,
		Data: data,
	})
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"err":    err,
		}).Error("client.EstimateGas failed")
		return nil, err
	}

	tx := types.NewTransaction(nonce, addr, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(int64(chainId))), t.key)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return nil, err
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"tx":     signed.Hash().Hex(),
			"err":    err,
		}).Error("client.SendTransaction failed")
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, client, signed)
	if err != nil {
		ctx.WithFields(log.Fields{
			"tx":  signed.Hash().Hex(),
			"err": err,
		}).Error("bind.WaitMined failed")
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		ctx.WithFields(log.Fields{
			"tx":     signed.Hash().Hex(),
			"method": method,
		}).Error("transaction reverted")
		return receipt, ErrTxReverted
	}
	return receipt, nil
}
