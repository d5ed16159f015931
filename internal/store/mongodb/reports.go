package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luandafin/finance-dashboard/internal/domain"
)

// Reports are append-only: each insert stamps created_at and the latest-read
// sorts on it. Nothing ever updates or deletes a stored report.

// InsertForecast appends a forecast report to ai_forecasts.
func (s *Store) InsertForecast(ctx context.Context, r *domain.ForecastReport) error {
	r.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(collForecasts).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("mongodb: insert forecast: %w", err)
	}
	return nil
}

// LatestForecast returns the most recently created forecast or ErrNotFound.
func (s *Store) LatestForecast(ctx context.Context) (*domain.ForecastReport, error) {
	var r domain.ForecastReport
	if err := s.latest(ctx, collForecasts, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertCreditReport appends a credit report to ai_credit_reports.
func (s *Store) InsertCreditReport(ctx context.Context, r *domain.CreditReport) error {
	r.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(collCreditReports).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("mongodb: insert credit report: %w", err)
	}
	return nil
}

// LatestCreditReport returns the most recently created credit report or
// ErrNotFound.
func (s *Store) LatestCreditReport(ctx context.Context) (*domain.CreditReport, error) {
	var r domain.CreditReport
	if err := s.latest(ctx, collCreditReports, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertRiskReport appends a risk report to ai_risk_reports.
func (s *Store) InsertRiskReport(ctx context.Context, r *domain.RiskReport) error {
	r.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(collRiskReports).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("mongodb: insert risk report: %w", err)
	}
	return nil
}

// LatestRiskReport returns the most recently created risk report or
// ErrNotFound.
func (s *Store) LatestRiskReport(ctx context.Context) (*domain.RiskReport, error) {
	var r domain.RiskReport
	if err := s.latest(ctx, collRiskReports, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) latest(ctx context.Context, coll string, out any) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := s.db.Collection(coll).FindOne(ctx, bson.M{}, opts).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mongodb: latest %s: %w", coll, err)
	}
	return nil
}
