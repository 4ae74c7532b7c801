package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	bCtx "github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/delivery"
	"github.com/gameswap/goapi/base/metrics"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/gameswap/goapi/middleware"
	authMiddleware "github.com/gameswap/goapi/stores/auth/delivery/http/middleware"
)

var met metrics.Service

type handler struct {
	marketplace marketplace.UseCase
	listings    marketplace.ListingRepo
	metrics     marketplace.MetricsRepo
}

func New(
	e *echo.Echo,
	marketplaceUC marketplace.UseCase,
	listings marketplace.ListingRepo,
	metricsRepo marketplace.MetricsRepo,
	auth *authMiddleware.AuthMiddleware) {
	met = metrics.New("marketplace")

	h := &handler{marketplaceUC, listings, metricsRepo}

	g := e.Group("/marketplace")

	g.GET("/listings", h.getListings, middleware.CacheHttp(30*time.Second))
	g.GET("/listings/active", h.getActiveListings)
	g.POST("/listings", h.list, auth.Auth())
	g.GET("/listing/:listingId", h.getListing)
	g.PUT("/listing/:listingId/price", h.updatePrice, auth.Auth())
	g.DELETE("/listing/:listingId", h.delist, auth.Auth())
	g.POST("/listing/:listingId/buy", h.buy, auth.Auth())
	g.GET("/metrics", h.getAllMetrics, middleware.CacheHttp(time.Minute))
	g.GET("/metrics/:contract/:tokenId", h.getMetrics, middleware.CacheHttp(30*time.Second))
	g.GET("/account/:address/stats", h.getUserStats, middleware.IsValidAddress("address"))
	g.GET("/activities", h.getActivities, middleware.CacheHttp(30*time.Second))
	g.GET("/paused", h.getPaused)

	ga := g.Group("/admin", auth.Auth(), auth.IsAdmin())
	ga.POST("/pause", h.pause)
	ga.POST("/unpause", h.unpause)
	ga.PUT("/treasury", h.setTreasury)
	ga.PUT("/payment-token", h.setPaymentToken)
	ga.POST("/withdraw-token", h.withdrawToken)
	ga.POST("/withdraw-asset", h.withdrawAsset)
}

func (h *handler) getListings(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	type params struct {
		SortBy          *string                `query:"sortBy"`
		SortDir         *domain.SortDir        `query:"sortDir"`
		Offset          int32                  `query:"offset"`
		Limit           int32                  `query:"limit"`
		Seller          *domain.Address        `query:"seller"`
		ContractAddress *domain.Address        `query:"contractAddress"`
		TokenId         *domain.TokenId        `query:"tokenId"`
		Kind            *marketplace.AssetKind `query:"kind"`
		IsActive        *bool                  `query:"isActive"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []marketplace.ListingFindAllOptions{
		marketplace.ListingWithPagination(p.Offset, p.Limit),
	}
	if p.SortBy != nil && p.SortDir != nil {
		opts = append(opts, marketplace.ListingWithSort(*p.SortBy, *p.SortDir))
	}
	if p.Seller != nil {
		opts = append(opts, marketplace.ListingWithSeller(*p.Seller))
	}
	if p.ContractAddress != nil && p.TokenId != nil {
		opts = append(opts, marketplace.ListingWithAsset(*p.ContractAddress, *p.TokenId))
	}
	if p.Kind != nil {
		opts = append(opts, marketplace.ListingWithKind(*p.Kind))
	}
	if p.IsActive != nil {
		opts = append(opts, marketplace.ListingWithIsActive(*p.IsActive))
	}

	res, err := h.listings.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	cnt, err := h.listings.Count(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	type response struct {
		Items []marketplace.Listing `json:"items"`
		Count int                   `json:"count"`
	}
	return delivery.MakeJsonResp(c, http.StatusOK, &response{Items: res, Count: cnt})
}

func (h *handler) getActiveListings(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	if res, err := h.marketplace.GetActiveListings(ctx); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	listingId, err := strconv.ParseInt(c.Param("listingId"), 10, 64)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid listing id")
	}
	if res, err := h.marketplace.GetListing(ctx, listingId); err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)

	p := &marketplace.CreateListingParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p.Seller = address

	met.BumpSum("list.count", 1)
	if res, err := h.marketplace.List(ctx, p); err != nil {
		return makeMarketplaceResp(c, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) updatePrice(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	listingId, err := strconv.ParseInt(c.Param("listingId"), 10, 64)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid listing id")
	}

	type params struct {
		Price string `json:"price" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if res, err := h.marketplace.UpdatePrice(ctx, address, listingId, p.Price); err != nil {
		return makeMarketplaceResp(c, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	listingId, err := strconv.ParseInt(c.Param("listingId"), 10, 64)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid listing id")
	}

	if err := h.marketplace.Delist(ctx, address, listingId); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	listingId, err := strconv.ParseInt(c.Param("listingId"), 10, 64)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid listing id")
	}

	p := &marketplace.BuyParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	p.Buyer = address
	p.ListingId = listingId

	met.BumpSum("buy.count", 1)
	if res, err := h.marketplace.Buy(ctx, p); err != nil {
		return makeMarketplaceResp(c, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getAllMetrics(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	type params struct {
		SortBy          *string         `query:"sortBy"`
		SortDir         *domain.SortDir `query:"sortDir"`
		Offset          int32           `query:"offset"`
		Limit           int32           `query:"limit"`
		ContractAddress *domain.Address `query:"contractAddress"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []marketplace.MetricsFindAllOptions{
		marketplace.MetricsWithPagination(p.Offset, p.Limit),
	}
	if p.SortBy != nil && p.SortDir != nil {
		opts = append(opts, marketplace.MetricsWithSort(*p.SortBy, *p.SortDir))
	}
	if p.ContractAddress != nil {
		opts = append(opts, marketplace.MetricsWithContractAddress(*p.ContractAddress))
	}

	if res, err := h.metrics.FindAll(ctx, opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getMetrics(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	id := marketplace.MetricsId{
		ContractAddress: domain.Address(c.Param("contract")),
		TokenId:         domain.TokenId(c.Param("tokenId")),
	}
	if res, err := h.marketplace.GetMetrics(ctx, id); err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getUserStats(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := domain.Address(c.Param("address"))
	if res, err := h.marketplace.GetUserStats(ctx, address); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getActivities(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	type params struct {
		SortBy          *string                   `query:"sortBy"`
		SortDir         *domain.SortDir           `query:"sortDir"`
		Offset          int32                     `query:"offset"`
		Limit           int32                     `query:"limit"`
		Account         *domain.Address           `query:"account"`
		ContractAddress *domain.Address           `query:"contractAddress"`
		TokenId         *domain.TokenId           `query:"tokenId"`
		Type            *marketplace.ActivityType `query:"type"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []marketplace.ActivityFindAllOptions{
		marketplace.ActivityWithPagination(p.Offset, p.Limit),
	}
	if p.SortBy != nil && p.SortDir != nil {
		opts = append(opts, marketplace.ActivityWithSort(*p.SortBy, *p.SortDir))
	}
	if p.Account != nil {
		opts = append(opts, marketplace.ActivityWithAccount(*p.Account))
	}
	if p.ContractAddress != nil && p.TokenId != nil {
		opts = append(opts, marketplace.ActivityWithAsset(*p.ContractAddress, *p.TokenId))
	}
	if p.Type != nil {
		opts = append(opts, marketplace.ActivityWithType(*p.Type))
	}

	if res, err := h.marketplace.GetActivities(ctx, opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) getPaused(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.IsPaused(ctx))
}

func (h *handler) pause(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	if err := h.marketplace.Pause(ctx, address); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) unpause(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	if err := h.marketplace.Unpause(ctx, address); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) setTreasury(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	type params struct {
		Treasury domain.Address `json:"treasury" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := h.marketplace.SetTreasury(ctx, address, p.Treasury); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) setPaymentToken(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	type params struct {
		PaymentToken domain.Address `json:"paymentToken" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := h.marketplace.SetPaymentToken(ctx, address, p.PaymentToken); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) withdrawToken(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	type params struct {
		To     domain.Address `json:"to" validate:"required"`
		Amount string         `json:"amount" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := h.marketplace.EmergencyWithdrawToken(ctx, address, p.To, p.Amount); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) withdrawAsset(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	address := c.Get("address").(domain.Address)
	type params struct {
		ContractAddress domain.Address `json:"contractAddress" validate:"required"`
		TokenId         domain.TokenId `json:"tokenId" validate:"required"`
		To              domain.Address `json:"to" validate:"required"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := h.marketplace.EmergencyWithdrawAsset(ctx, address, p.ContractAddress, p.TokenId, p.To); err != nil {
		return makeMarketplaceResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

// makeMarketplaceResp maps engine errors to http statuses before falling
// back to the shared json response helper
func makeMarketplaceResp(c echo.Context, err error) error {
	switch err {
	case domain.ErrNotFound:
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	case domain.ErrInvalidPrice, domain.ErrInvalidQuantity, domain.ErrInvalidAssetKind,
		domain.ErrPriceOverflow, domain.ErrInvalidAddress, domain.ErrInvalidNumberFormat:
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	case domain.ErrNotSeller, domain.ErrNotOwner, domain.ErrSelfTrade:
		return delivery.MakeJsonResp(c, http.StatusForbidden, err)
	case domain.ErrListingNotActive, domain.ErrInsufficientQuantity, domain.ErrPaused,
		domain.ErrReentrantCall, domain.ErrNotAssetOwner, domain.ErrNotApproved,
		domain.ErrInsufficientBalance, domain.ErrInsufficientAllowance:
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	default:
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
}
