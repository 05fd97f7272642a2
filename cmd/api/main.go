package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flicky/gourmethub-api/internal/config"
	"github.com/flicky/gourmethub-api/internal/handler"
	"github.com/flicky/gourmethub-api/internal/middleware"
	"github.com/flicky/gourmethub-api/internal/repository"
	"github.com/flicky/gourmethub-api/internal/service"
	"github.com/flicky/gourmethub-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	if cfg.DB.Migrate {
		if err := repository.Migrate(ctx, dbPool); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// MongoDB
	mongoCtx, mongoCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err == nil {
		err = mongoClient.Ping(mongoCtx, nil)
	}
	mongoCancel()
	if err != nil {
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	mongoDB := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureAuditIndexes(ctx, mongoDB, cfg.Mongo.AuditCollection); err != nil {
		log.Error("create audit indexes", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer consumeCh.Close()

	if err := worker.SetupRabbitMQ(consumeCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}

	publishCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ publish channel", "error", err)
		os.Exit(1)
	}
	defer publishCh.Close()
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	auditRepo := repository.NewAuditRepository(mongoDB, cfg.Mongo.AuditCollection)
	cartStorage := repository.NewCartStorage(redisClient, cfg.Shop.CartTTL)
	checkoutRepo := repository.NewCheckoutRepository(redisClient, cfg.Shop.CheckoutTTL)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, redisClient, cfg.Shop.ProductCache)
	cartSvc := service.NewCartService(cartStorage, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, userRepo, auditRepo, worker.NewPublisher(publishCh), log)
	checkoutSvc := service.NewCheckoutService(checkoutRepo, cartSvc, orderSvc, log)

	// Handlers
	authH := handler.NewAuthHandler(authSvc, log)
	productH := handler.NewProductHandler(productSvc, log)
	cartH := handler.NewCartHandler(cartSvc, log)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc, cfg.Shop.LoginPath, cfg.Shop.CartPath, log)
	orderH := handler.NewOrderHandler(orderSvc, log)
	adminH := handler.NewAdminHandler(orderSvc, log)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn, mongoClient)

	// Worker
	orderWorker := worker.NewOrderWorker(consumeCh, orderRepo, productRepo, worker.NewRedisDeduper(redisClient), productSvc, log)

	// Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		me := v1.Group("/me", authRequired)
		me.GET("", authH.Profile)
		me.PUT("", authH.UpdateProfile)

		v1.GET("/categories", productH.Categories)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/featured", productH.Featured)
		products.GET("/slug/:slug", productH.GetBySlug)
		products.GET("/:id", productH.GetByID)
		products.GET("/:id/related", productH.Related)
		products.POST("/:id/reviews", authRequired, productH.AddReview)

		adminProducts := products.Group("", authRequired, middleware.AdminOnly())
		adminProducts.POST("", productH.Create)
		adminProducts.PUT("/:id", productH.Update)
		adminProducts.DELETE("/:id", productH.Delete)

		cart := v1.Group("/cart", authRequired)
		cart.GET("", cartH.GetCart)
		cart.DELETE("", cartH.Clear)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:productId", cartH.UpdateItem)
		cart.DELETE("/items/:productId", cartH.DeleteItem)
		cart.POST("/toggle", cartH.Toggle)
		cart.POST("/open", cartH.Open)
		cart.POST("/close", cartH.Close)

		checkout := v1.Group("/checkout",
			middleware.OptionalAuth(cfg.JWT.Secret), middleware.RedirectAnonymous(cfg.Shop.LoginPath))
		checkout.GET("", checkoutH.View)
		checkout.POST("/shipping", checkoutH.SubmitShipping)
		checkout.POST("/edit", checkoutH.EditShipping)
		checkout.POST("/place", checkoutH.PlaceOrder)

		orders := v1.Group("/orders", authRequired)
		orders.POST("", orderH.CreateOrder)
		orders.GET("", orderH.ListOrders)
		orders.GET("/:id", orderH.GetOrder)

		admin := v1.Group("/admin", authRequired, middleware.AdminOnly())
		admin.GET("/orders", adminH.ListOrders)
		admin.PATCH("/orders/:id/status", adminH.UpdateStatus)
		admin.GET("/orders/:id/history", adminH.History)
		admin.GET("/stats", adminH.Stats)
	}

	if err := orderWorker.Start(ctx); err != nil {
		log.Error("start order worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
