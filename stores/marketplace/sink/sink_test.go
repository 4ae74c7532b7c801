package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gameswap/goapi/base/ctx"
	"github.com/gameswap/goapi/domain"
	"github.com/gameswap/goapi/domain/marketplace"
	mockRedis "github.com/gameswap/goapi/service/redis/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	im    *impl
	redis *mockRedis.Service
}

func (ts *testsuite) SetupTest() {
	ts.redis = &mockRedis.Service{}
	ts.im = New(ts.redis).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestMetricsUpdated() {
	m := &marketplace.MarketMetrics{
		ContractAddress: domain.Address("0x41f2c2f7b1b0d0e7cbfe51ee35c543c348dd2fbb"),
		TokenId:         domain.TokenId("7"),
		TotalVolume:     "400",
		TotalTrades:     1,
		Demand:          1,
	}

	ts.redis.On("SetStruct", mockCtx, "marketMetrics:0x41f2c2f7b1b0d0e7cbfe51ee35c543c348dd2fbb:7", m, 24*time.Hour).Return(nil).Once()
	ts.im.MetricsUpdated(mockCtx, m)
	ts.redis.AssertExpectations(ts.T())
}
