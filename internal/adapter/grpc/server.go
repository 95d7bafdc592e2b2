package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danbrewer/letsretire-backend/internal/config"
	"github.com/danbrewer/letsretire-backend/internal/domain"
	"github.com/danbrewer/letsretire-backend/internal/logger"
	"github.com/danbrewer/letsretire-backend/internal/usecase/projection"
)

// ProjectionRunner is the use case behind the projection service
type ProjectionRunner interface {
	Run(ctx context.Context, in *domain.Inputs) (*projection.Result, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Projection, error)
}

// Server implements the ProjectionService gRPC server
type Server struct {
	Projections ProjectionRunner
}

// NewServer creates a new gRPC server instance
func NewServer(projections ProjectionRunner) *Server {
	return &Server{Projections: projections}
}

// RunProjection handles the RunProjection RPC.
// The request carries the same fields as an assumptions file.
func (s *Server) RunProjection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// Decode assumptions; unknown fields are rejected
	raw, err := req.MarshalJSON()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var file config.AssumptionsFile
	if err := decoder.Decode(&file); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid assumptions: %v", err)
	}

	result, err := s.Projections.Run(ctx, file.ToInputs())
	if err != nil {
		return nil, mapError(err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("projection_id", result.Projection.ID.String()).
		Int("years", len(result.Projection.Years)).
		Msg("projection computed")

	resp := projectionFields(result.Projection)
	failures := make([]interface{}, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, map[string]interface{}{
			"fiscal_year": f.FiscalYear,
			"age":         f.Age,
			"error":       f.Err.Error(),
		})
	}
	resp["failures"] = failures

	return toStruct(resp)
}

// GetProjection handles the GetProjection RPC
func (s *Server) GetProjection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// Parse projection ID
	id, err := uuid.Parse(req.GetFields()["id"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid projection id: %v", err)
	}

	p, err := s.Projections.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(projectionFields(p))
}

// projectionFields flattens a projection into Struct-compatible values.
// Money is carried as fixed two-place strings.
func projectionFields(p *domain.Projection) map[string]interface{} {
	var depletionAge interface{}
	if p.DepletionAge != nil {
		depletionAge = *p.DepletionAge
	}

	years := make([]interface{}, 0, len(p.Years))
	for _, y := range p.Years {
		years = append(years, map[string]interface{}{
			"fiscal_year":              y.FiscalYear,
			"age":                      y.Age,
			"kind":                     string(y.Kind),
			"gross_income":             money(y.GrossIncome),
			"withholdings":             money(y.Withholdings),
			"net_income":               money(y.NetIncome),
			"spending":                 money(y.Spending),
			"unmet_spending":           money(y.UnmetSpending),
			"income_tax":               money(y.IncomeTax),
			"required_distribution":    money(y.RequiredDistribution),
			"traditional_401k_balance": money(y.Traditional401kBalance),
			"roth_balance":             money(y.RothBalance),
			"savings_balance":          money(y.SavingsBalance),
			"portfolio_balance":        money(y.PortfolioBalance),
			"interest_earned":          money(y.InterestEarned),
		})
	}

	return map[string]interface{}{
		"id":            p.ID.String(),
		"created_at":    p.CreatedAt.UTC().Format(time.RFC3339),
		"start_year":    p.StartYear,
		"end_year":      p.EndYear,
		"depletion_age": depletionAge,
		"years":         years,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.CurrencyPlaces)
}

func toStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInputs),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidInterestEpoch):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrProjectionNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, projection.ErrPersistenceDisabled):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

var _ ProjectionServiceServer = (*Server)(nil)
