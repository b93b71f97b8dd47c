package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/handler"
	appmw "github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"github.com/tradebridge/marketplace-backend/internal/service"
	"github.com/tradebridge/marketplace-backend/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e   *echo.Echo
	log *zap.SugaredLogger
}

type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Uploader storage.Uploader
	Logger   *zap.SugaredLogger
	GitSHA   string
	Build    string
}

func New(opts Options) *Server {
	cfg := opts.Config
	log := opts.Logger

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Infow("request", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			return true, nil
		},
	}))

	userRepo := repository.NewUserRepository(opts.DB)
	productRepo := repository.NewProductRepository(opts.DB)
	rfqRepo := repository.NewRFQRepository(opts.DB)
	chatRepo := repository.NewChatRepository(opts.DB)
	reviewRepo := repository.NewReviewRepository(opts.DB)
	notifRepo := repository.NewNotificationRepository(opts.DB)

	notifSvc := service.NewNotificationService(notifRepo, log)
	authSvc := service.NewAuthService(userRepo, cfg)
	listingSvc := service.NewListingService(productRepo, rfqRepo, userRepo, notifSvc)
	rfqSvc := service.NewRFQService(rfqRepo, productRepo, chatRepo, notifSvc)
	chatSvc := service.NewChatService(chatRepo, rfqRepo, productRepo, notifSvc)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo)

	authHandler := handler.NewAuthHandler(authSvc, cfg)
	listingHandler := handler.NewListingHandler(listingSvc, reviewSvc)
	rfqHandler := handler.NewRFQHandler(rfqSvc)
	chatHandler := handler.NewChatHandler(chatSvc, opts.Uploader)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	authMw := appmw.NewAuthMiddleware(cfg.JWTSecret)
	adminOnly := authMw.RequireRole(model.RoleAdmin)
	sellerOnly := authMw.RequireRole(model.RoleSeller)
	buyerOnly := authMw.RequireRole(model.RoleBuyer)
	chatLimiter := appmw.NewRateLimiter(opts.Redis, "chat_send",
		cfg.ChatRateLimit, time.Duration(cfg.ChatRateWindowSecs)*time.Second)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    opts.GitSHA,
			"build_time": opts.Build,
		})
	})

	e.POST("/seller/register", authHandler.RegisterSeller)
	e.POST("/buyer/signup", authHandler.SignupBuyer)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	e.GET("/seller/profile", authHandler.GetSellerProfile, authMw.RequireAuth, sellerOnly)
	e.PUT("/seller/profile", authHandler.UpdateSellerProfile, authMw.RequireAuth, sellerOnly)

	e.GET("/products/:category", listingHandler.Browse)
	e.GET("/products/:category/:id", listingHandler.Detail)
	e.POST("/products/:id/reviews", listingHandler.CreateReview, authMw.RequireAuth, buyerOnly)

	e.POST("/listing", listingHandler.Create, authMw.RequireAuth, sellerOnly)
	e.GET("/listing/all", listingHandler.ListAll, authMw.RequireAuth, adminOnly)
	e.POST("/listing/approve/:id", listingHandler.Approve, authMw.RequireAuth, adminOnly)
	e.POST("/listing/reject/:id", listingHandler.Reject, authMw.RequireAuth, adminOnly)

	e.POST("/rfq", rfqHandler.Create, authMw.RequireAuth, buyerOnly)
	e.GET("/rfq/buyer/:id", rfqHandler.ListByBuyer, authMw.RequireAuth)
	e.GET("/rfq/forwarded", rfqHandler.ListForwarded, authMw.RequireAuth, adminOnly)
	e.POST("/rfq/forward/:id", rfqHandler.Forward, authMw.RequireAuth, adminOnly)
	e.POST("/rfq/convert/:id", rfqHandler.Convert, authMw.RequireAuth, adminOnly)

	e.POST("/chat/chatroom", chatHandler.CreateRoom, authMw.RequireAuth, adminOnly)
	e.GET("/chat/chatrooms", chatHandler.ListRooms, authMw.RequireAuth)
	e.GET("/chat/chatroom/:id/messages", chatHandler.ListMessages, authMw.RequireAuth)
	e.POST("/chat/chatroom/message", chatHandler.SendMessage, authMw.RequireAuth, chatLimiter.ByPrincipal)
	e.POST("/chat/chatroom/:id/read", chatHandler.MarkRead, authMw.RequireAuth)
	e.POST("/chat/chatroom/:id/upload", chatHandler.Upload, authMw.RequireAuth, chatLimiter.ByPrincipal)
	e.PUT("/chat/message/:id/edit", chatHandler.EditMessage, authMw.RequireAuth)
	e.DELETE("/chat/message/:id/delete", chatHandler.DeleteMessage, authMw.RequireAuth)
	e.PATCH("/chat/message/:id/pin", chatHandler.PinMessage, authMw.RequireAuth)
	e.PATCH("/chat/message/:id/react", chatHandler.ReactToMessage, authMw.RequireAuth)

	e.GET("/notifications", notifHandler.List, authMw.RequireAuth)
	e.POST("/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)

	return &Server{e: e, log: log}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
