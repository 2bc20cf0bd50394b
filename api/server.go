package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/middleware"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/payment"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

func init() {
	// the storefront reads amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentProcessor interface {
	Process(ctx context.Context, user utils.TokenObject, req payment.Request) (*payment.Result, error)
}

type CouponManager interface {
	IssueChatCoupon(ctx context.Context, userID uuid.UUID) (*coupon.IssueResult, error)
	Validate(ctx context.Context, code string) (*coupon.CouponModel, error)
	CreateCoupon(ctx context.Context, createdBy uuid.UUID, params coupon.CreateParams) (*coupon.CouponModel, error)
	ListCoupons(ctx context.Context, limit, offset int32) ([]*coupon.CouponModel, error)
}

// Dependencies are the services the routers need beyond the database.
type Dependencies struct {
	Payments     PaymentProcessor
	Coupons      CouponManager
	ActivityLogs middleware.Recorder
}

type Server struct {
	router         *gin.Engine
	store          *db.Store
	config         *utils.Config
	logger         *logging.Logger
	tokens         *utils.JWTToken
	authMiddleware *AuthMiddleware
	activityLogs   *middleware.ActivityLogMiddleware
	limiter        *RateLimiter
	payments       PaymentProcessor
	coupons        CouponManager
}

func NewServer(c *utils.Config, store *db.Store, logger *logging.Logger, deps Dependencies) *Server {
	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	g := gin.New()
	g.Use(gin.Recovery())
	g.Use(CORSMiddleware())
	g.Use(MetricsMiddleware())
	g.Use(logger.LoggingMiddleWare())

	tokens := utils.NewJWTToken(c)

	s := &Server{
		router:         g,
		store:          store,
		config:         c,
		logger:         logger,
		tokens:         tokens,
		authMiddleware: NewAuthMiddleware(tokens),
		payments:       deps.Payments,
		coupons:        deps.Coupons,
	}
	if deps.ActivityLogs != nil {
		s.activityLogs = middleware.NewActivityLogMiddleware(deps.ActivityLogs, logger)
	}
	if c.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(c.RateLimitRPS, c.RateLimitBurst, 3*time.Minute)
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	dr := basemodels.NewSuccess("Welcome to EVS Comercial!", nil)

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	/// Register Object Routers Below
	Auth{}.router(s)
	Wallet{}.router(s)
	Payments{}.router(s)
	Coupons{}.router(s)
	Currency{}.router(s)
}

// activityLogger is a no-op when no recorder was configured.
func (s *Server) activityLogger() gin.HandlerFunc {
	if s.activityLogs == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return s.activityLogs.ActivityLogger()
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", s.config.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("listening on %s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.limiter != nil {
		s.limiter.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
