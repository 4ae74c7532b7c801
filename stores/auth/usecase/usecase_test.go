package usecase_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/ethereum"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/stores/auth/usecase"
)

const msgTemplate = "Welcome to Gameswap! Sign this message to login: %s"

func TestSignAndParseToken(t *testing.T) {
	privateKey, publicKey, err := ethereum.GenerateKey()
	assert.NoError(t, err)
	address := strings.ToLower(crypto.PubkeyToAddress(*publicKey).Hex())
	message := []byte(fmt.Sprintf(msgTemplate, address))
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	assert.NoError(t, err)

	ctx := ctx.Background()
	u := usecase.New("jwt-secret", msgTemplate)
	tkn, err := u.SignToken(ctx, domain.Address(address), hexutil.Encode(signature))
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, address, ads)
}

func TestSignTokenRejectsWrongSigner(t *testing.T) {
	privateKey, _, err := ethereum.GenerateKey()
	assert.NoError(t, err)
	_, otherPub, err := ethereum.GenerateKey()
	assert.NoError(t, err)
	address := strings.ToLower(crypto.PubkeyToAddress(*otherPub).Hex())
	message := []byte(fmt.Sprintf(msgTemplate, address))
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	assert.NoError(t, err)

	u := usecase.New("jwt-secret", msgTemplate)
	_, err = u.SignToken(ctx.Background(), domain.Address(address), hexutil.Encode(signature))
	assert.Equal(t, domain.ErrInvalidSignature, err)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	privateKey, publicKey, err := ethereum.GenerateKey()
	assert.NoError(t, err)
	address := strings.ToLower(crypto.PubkeyToAddress(*publicKey).Hex())
	message := []byte(fmt.Sprintf(msgTemplate, address))
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	assert.NoError(t, err)

	c := ctx.Background()
	tkn, err := usecase.New("secret-a", msgTemplate).SignToken(c, domain.Address(address), hexutil.Encode(signature))
	assert.NoError(t, err)
	_, err = usecase.New("secret-b", msgTemplate).ParseToken(c, tkn)
	assert.Error(t, err)
}
