package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Shimizu-Technology/hafaloha-wholesale-api/docs"
	v1 "github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/handler/v1"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/api/middleware"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/config"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/payment"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/repository/dao"
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventsHandler := v1.NewEventsHandler()
	go eventsHandler.Run()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	catalogHandler := s.initCatalogHandler(db, eventsHandler)
	cartHandler := s.initCartHandler(db)
	orderHandler := s.initOrderHandler(db, eventsHandler)
	s.MountHandlers(authHandler, userHandler, catalogHandler, cartHandler, orderHandler, eventsHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initCatalogHandler(db *gorm.DB, events *v1.EventsHandler) *v1.CatalogHandler {
	catalogDAO := dao.NewCatalogDAO(db)
	repo := repository.NewCatalogRepository(catalogDAO)
	svc := service.NewCatalogService(repo, events)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewCatalogHandler(svc, uSvc)

	return handler
}

func (s *Server) initCartHandler(db *gorm.DB) *v1.CartHandler {
	cartDAO := dao.NewCartDAO(db)
	repo := repository.NewCartRepository(cartDAO)
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	svc := service.NewCartService(repo, catalogRepo)
	handler := v1.NewCartHandler(svc)

	return handler
}

func (s *Server) initOrderHandler(db *gorm.DB, events *v1.EventsHandler) *v1.OrderHandler {
	cartRepo := repository.NewCartRepository(dao.NewCartDAO(db))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	processor := payment.NewStripeProcessor(s.Config.Stripe.SecretKey)
	svc := service.NewCheckoutService(cartRepo, catalogRepo, orderRepo, processor, events)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	catalogSvc := service.NewCatalogService(catalogRepo, events)
	handler := v1.NewOrderHandler(svc, uSvc, catalogSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	catalogHandler *v1.CatalogHandler,
	cartHandler *v1.CartHandler,
	orderHandler *v1.OrderHandler,
	eventsHandler *v1.EventsHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	// Storefront routes are public: browsing, carts and checkout happen
	// without an account.
	store := s.Router.Group(basePath)
	{
		store.GET("/fundraisers", catalogHandler.HandleListFundraisers)
		store.GET("/fundraisers/:slug", catalogHandler.HandleGetFundraiser)
		store.GET("/fundraisers/:slug/items", catalogHandler.HandleListItems)
		store.GET("/fundraisers/:slug/participants", catalogHandler.HandleListParticipants)
		store.GET("/items/:itemID", catalogHandler.HandleGetItem)

		store.POST("/carts", cartHandler.HandleCreateCart)
		store.GET("/carts/:token", cartHandler.HandleGetCart)
		store.DELETE("/carts/:token", cartHandler.HandleClearCart)
		store.POST("/carts/:token/items", cartHandler.HandleAddItem)
		store.PUT("/carts/:token/items/:lineID", cartHandler.HandleUpdateItem)
		store.DELETE("/carts/:token/items/:lineID", cartHandler.HandleRemoveItem)
		store.POST("/carts/:token/conflict", cartHandler.HandleResolveConflict)

		store.POST("/carts/:token/checkout", orderHandler.HandleCheckout)
		store.GET("/orders/:reference", orderHandler.HandleGetOrder)

		store.GET("/events", eventsHandler.HandleWebSocket)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/fundraisers", catalogHandler.HandleCreateFundraiser)
		admin.POST("/fundraisers/:slug/participants", catalogHandler.HandleCreateParticipant)
		admin.POST("/fundraisers/:slug/items", catalogHandler.HandleCreateItem)
		admin.GET("/fundraisers/:slug/orders", orderHandler.HandleListOrders)
		admin.PUT("/items/:itemID/stock", catalogHandler.HandleUpdateItemStock)
		admin.PUT("/items/:itemID/options/stock", catalogHandler.HandleUpdateOptionStock)
		admin.PUT("/items/:itemID/variants/stock", catalogHandler.HandleUpdateVariantStock)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Hafaloha Wholesale API"
	docs.SwaggerInfo.Description = "Wholesale fundraiser storefront API: catalog, carts, checkout and realtime events."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
