package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	collTransactions  = "transactions"
	collForecasts     = "ai_forecasts"
	collCreditReports = "ai_credit_reports"
	collRiskReports   = "ai_risk_reports"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("mongodb: not found")

// Store wraps the MongoDB client and database. It is opened once at startup
// and closed at shutdown.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

// Connect opens a client, verifies the connection with a ping and returns a
// ready Store.
func Connect(ctx context.Context, uri, dbName string, log zerolog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return &Store{
		client: client,
		db:     client.Database(dbName),
		log:    log,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
