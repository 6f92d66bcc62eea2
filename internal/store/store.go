package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"employee-records/internal/config"
)

// GuardStatus reports which store-level guards were actually installed.
// Both are best effort; the application never assumes a guard it failed to
// set up.
type GuardStatus struct {
	IndexReady     bool `json:"index_ready"`
	ValidatorReady bool `json:"validator_ready"`
}

// Store owns the process-wide MongoDB handle. It is created once at startup
// and shared by all requests.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	employees *mongo.Collection
	opTimeout time.Duration
	guards    GuardStatus
	log       *zap.Logger
}

func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	return &Store{
		client:    client,
		db:        db,
		employees: db.Collection(cfg.MongoCollection),
		opTimeout: cfg.OpTimeout,
		log:       log.Named("store"),
	}, nil
}

func (s *Store) Employees() *mongo.Collection {
	return s.employees
}

// OpContext bounds a single store round-trip so a lost connection cannot
// hang a request indefinitely.
func (s *Store) OpContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := s.OpContext(ctx)
	defer cancel()
	return s.client.Ping(pingCtx, nil)
}

func (s *Store) Guards() GuardStatus {
	return s.guards
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
