package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	amqpConn    *amqp.Connection
	mongoClient *mongo.Client
}

func NewHealthHandler(dbPool *pgxpool.Pool, redisClient *redis.Client, amqpConn *amqp.Connection, mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{dbPool: dbPool, redisClient: redisClient, amqpConn: amqpConn, mongoClient: mongoClient}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports the first unavailable backing service.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", h.dbPool.Ping},
		{"redis", func(ctx context.Context) error { return h.redisClient.Ping(ctx).Err() }},
		{"rabbitmq", func(context.Context) error {
			if h.amqpConn.IsClosed() {
				return amqp.ErrClosed
			}
			return nil
		}},
		{"mongodb", func(ctx context.Context) error { return h.mongoClient.Ping(ctx, nil) }},
	}

	resp := gin.H{"status": "ok"}
	for _, ch := range checks {
		if err := ch.check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", ch.name: "unavailable"})
			return
		}
		resp[ch.name] = "connected"
	}
	c.JSON(http.StatusOK, resp)
}
