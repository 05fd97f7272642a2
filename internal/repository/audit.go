package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flicky/gourmethub-api/internal/model"
)

// AuditRepository records the lifecycle of orders.
type AuditRepository interface {
	Record(ctx context.Context, event *model.OrderEvent) error
	History(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error)
}

type orderEventDoc struct {
	OrderID   string    `bson:"order_id"`
	Action    string    `bson:"action"`
	From      string    `bson:"from,omitempty"`
	To        string    `bson:"to"`
	ActorID   string    `bson:"actor_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoAuditRepo struct{ coll *mongo.Collection }

func NewAuditRepository(db *mongo.Database, collection string) AuditRepository {
	return &mongoAuditRepo{coll: db.Collection(collection)}
}

// EnsureAuditIndexes creates the index History reads through.
func EnsureAuditIndexes(ctx context.Context, db *mongo.Database, collection string) error {
	_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

func (r *mongoAuditRepo) Record(ctx context.Context, event *model.OrderEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, orderEventDoc{
		OrderID:   event.OrderID.String(),
		Action:    event.Action,
		From:      string(event.From),
		To:        string(event.To),
		ActorID:   event.ActorID.String(),
		CreatedAt: event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("record order event: %w", err)
	}
	return nil
}

// History returns the events of an order, newest first.
func (r *mongoAuditRepo) History(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"order_id": orderID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("find order events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderEventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode order events: %w", err)
	}

	events := make([]model.OrderEvent, 0, len(docs))
	for _, d := range docs {
		actor, _ := uuid.Parse(d.ActorID)
		events = append(events, model.OrderEvent{
			OrderID:   orderID,
			Action:    d.Action,
			From:      model.OrderStatus(d.From),
			To:        model.OrderStatus(d.To),
			ActorID:   actor,
			CreatedAt: d.CreatedAt,
		})
	}
	return events, nil
}
