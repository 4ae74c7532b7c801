package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	// marketplace validation error, rejected before any state change
	ErrInvalidPrice     = errors.New("price must be a positive integer")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidAssetKind = errors.New("invalid asset kind")
	ErrPriceOverflow    = errors.New("price computation overflows")

	// marketplace authorization error
	ErrNotSeller = errors.New("caller is not the seller")
	ErrNotOwner  = errors.New("caller is not the marketplace owner")
	ErrSelfTrade = errors.New("seller cannot buy own listing")

	// marketplace state error
	ErrListingNotActive     = errors.New("listing is not active")
	ErrInsufficientQuantity = errors.New("quantity exceeds remaining quantity")
	ErrPaused               = errors.New("marketplace is paused")
	ErrReentrantCall        = errors.New("reentrant call rejected")

	// adapter failure, aborts the enclosing call
	ErrNotAssetOwner         = errors.New("caller does not own the asset")
	ErrNotApproved           = errors.New("asset is not approved for escrow")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrPaymentFailed         = errors.New("payment transfer rejected")
	ErrTransferFailed        = errors.New("asset transfer rejected")
)
