package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/base/database/mongoclient"
	"github.com/gameswap/goapi/base/database/redisclient"
	"github.com/gameswap/goapi/base/log"
	"github.com/gameswap/goapi/base/metrics"
	bValidator "github.com/gameswap/goapi/base/validator"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
	"github.com/go-playground/validator/v10"
	mmiddleware "github.com/gameswap/goapi/middleware"
	"github.com/gameswap/goapi/service/chain"
	"github.com/gameswap/goapi/service/chain/contract"
	"github.com/gameswap/goapi/service/query"
	"github.com/gameswap/goapi/service/redis"
	auth_delivery "github.com/gameswap/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/gameswap/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/gameswap/goapi/stores/auth/usecase"
	hc_delivery "github.com/gameswap/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/gameswap/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/gameswap/goapi/stores/healthcheck/usecase"
	marketplace_delivery "github.com/gameswap/goapi/stores/marketplace/delivery/http"
	marketplace_repository "github.com/gameswap/goapi/stores/marketplace/repository"
	marketplace_sink "github.com/gameswap/goapi/stores/marketplace/sink"
	marketplace_usecase "github.com/gameswap/goapi/stores/marketplace/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	archiveRpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
		archiveRpcUrl := networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k))
		archiveRpcs[chainId] = archiveRpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		ArchiveRpcUrls: archiveRpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	transactor, err := chain.NewTransactor(context, &chain.TransactorCfg{
		RpcUrls:    rpcs,
		PrivateKey: viper.GetString("escrow.privateKey"),
	})
	if err != nil {
		context.WithField("err", err).Panic("failed to init escrow transactor")
	}

	marketChainId := domain.ChainId(viper.GetInt32("market.chainId"))
	paymentToken := contract.NewErc20(marketChainId, chainService, transactor)
	uniqueRegistry := contract.NewErc721(marketChainId, chainService, transactor)
	holdingRegistry := contract.NewErc1155(marketChainId, chainService, transactor)

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := marketplace_repository.NewListingRepo(q)
	metricsRepo := marketplace_repository.NewMetricsRepo(q)
	activityRepo := marketplace_repository.NewActivityRepo(q)

	hc := hc_usecase.New(hcRepo)
	eventSink := marketplace_sink.New(redisCache)
	marketplaceUC, err := marketplace_usecase.NewMarketplaceUseCase(context, &marketplace_usecase.MarketplaceUseCaseCfg{
		ListingRepo:  listingRepo,
		MetricsRepo:  metricsRepo,
		ActivityRepo: activityRepo,
		Ledger:       paymentToken,
		Unique:       uniqueRegistry,
		Holding:      holdingRegistry,
		Events:       eventSink,
		Market: marketplace.Config{
			ChainId:      marketChainId,
			FeeBps:       viper.GetInt64("market.feeBps"),
			Owner:        domain.Address(viper.GetString("market.owner")),
			Treasury:     domain.Address(viper.GetString("market.treasury")),
			PaymentToken: domain.Address(viper.GetString("market.paymentToken")),
			Escrow:       domain.Address(transactor.Address().Hex()),
		},
	})
	if err != nil {
		context.WithField("err", err).Panic("failed to init marketplace")
	}
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetString("auth.signatureMsg"))

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("auth.signatureMsg"))
	marketplace_delivery.New(e, marketplaceUC, listingRepo, metricsRepo, authMiddleware)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
