package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

// TransactionFilter holds the equality filters accepted by FindTransactions.
// Empty fields are ignored.
type TransactionFilter struct {
	ID          string
	Type        string
	Status      string
	Description string
}

func (f TransactionFilter) toBSON() (bson.M, error) {
	filter := bson.M{}
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, &domain.ValidationError{Field: "id", Message: "invalid identifier"}
		}
		filter["_id"] = oid
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Description != "" {
		filter["description"] = f.Description
	}
	return filter, nil
}

// InsertTransaction stores a transaction, stamping CreatedAt and initializing
// the ai_analysis_results map. Returns the new hex identifier.
func (s *Store) InsertTransaction(ctx context.Context, tx *domain.Transaction) (string, error) {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now().UTC()
	if tx.AIAnalysisResults == nil {
		tx.AIAnalysisResults = map[string]any{}
	}

	if _, err := s.db.Collection(collTransactions).InsertOne(ctx, tx); err != nil {
		return "", fmt.Errorf("mongodb: insert transaction: %w", err)
	}
	return tx.ID.Hex(), nil
}

// FindTransactions returns transactions matching the filter, most recently
// created first.
func (s *Store) FindTransactions(ctx context.Context, f TransactionFilter) ([]domain.Transaction, error) {
	filter, err := f.toBSON()
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(collTransactions).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []domain.Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("mongodb: decode transactions: %w", err)
	}
	return txs, nil
}

// AllTransactions returns every stored transaction.
func (s *Store) AllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.FindTransactions(ctx, TransactionFilter{})
}

// FindTransactionByID returns a single transaction or ErrNotFound.
func (s *Store) FindTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &domain.ValidationError{Field: "id", Message: "invalid identifier"}
	}

	var tx domain.Transaction
	err = s.db.Collection(collTransactions).FindOne(ctx, bson.M{"_id": oid}).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: find transaction: %w", err)
	}
	return &tx, nil
}

// MergeAnalysisResult sets one named key of a transaction's
// ai_analysis_results map without disturbing sibling keys.
func (s *Store) MergeAnalysisResult(ctx context.Context, id, key string, value any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &domain.ValidationError{Field: "transaction_id", Message: "invalid identifier"}
	}

	update := bson.M{"$set": bson.M{"ai_analysis_results." + key: value}}
	res, err := s.db.Collection(collTransactions).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("mongodb: merge analysis result: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
