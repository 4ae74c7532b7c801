package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/gameswap/goapi/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// SignToken verifies the signature over the signing message for
	// `address` and issues a bearer token on success
	SignToken(ctx ctx.Ctx, address Address, signature string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
}
