package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danbrewer/letsretire-backend/internal/domain"
	"github.com/danbrewer/letsretire-backend/internal/logger"
	"github.com/danbrewer/letsretire-backend/internal/usecase/projection"
)

// MockProjectionRunner is a mock implementation of ProjectionRunner for testing
type MockProjectionRunner struct {
	mock.Mock
}

func (m *MockProjectionRunner) Run(ctx context.Context, in *domain.Inputs) (*projection.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projection.Result), args.Error(1)
}

func (m *MockProjectionRunner) Get(ctx context.Context, id uuid.UUID) (*domain.Projection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Projection), args.Error(1)
}

func sampleProjection() *domain.Projection {
	depletedAt := 88
	return &domain.Projection{
		ID:           uuid.MustParse("0b6f0a8e-3f7c-4a53-9d7e-2f4f5b0c9a11"),
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		StartYear:    2025,
		EndYear:      2026,
		DepletionAge: &depletedAt,
		Years: []domain.YearSnapshot{
			{
				FiscalYear:       2025,
				Age:              65,
				Kind:             domain.YearKindRetirement,
				GrossIncome:      decimal.NewFromInt(30000),
				Spending:         decimal.RequireFromString("40000.5"),
				PortfolioBalance: decimal.NewFromInt(500000),
			},
		},
	}
}

func mustStruct(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestServer_RunProjection(t *testing.T) {
	runner := new(MockProjectionRunner)
	server := NewServer(runner)

	result := &projection.Result{
		Projection: sampleProjection(),
		Failures:   []projection.YearFailure{{FiscalYear: 2026, Age: 66, Err: errors.New("boom")}},
	}
	runner.On("Run", mock.Anything, mock.MatchedBy(func(in *domain.Inputs) bool {
		return in.StartYear == 2025 &&
			in.CurrentAge == 65 &&
			in.SavingsBalance.Equal(decimal.NewFromInt(250000)) &&
			in.SpendingOverrides[70].Equal(decimal.NewFromInt(50000)) &&
			len(in.WithdrawalOrder) == 2
	})).Return(result, nil)

	req := mustStruct(t, map[string]interface{}{
		"start_year":     2025,
		"current_age":    65,
		"retirement_age": 65,
		"accounts": map[string]interface{}{
			"savings": map[string]interface{}{"balance": 250000, "rate": 0.02},
		},
		"spending": map[string]interface{}{
			"annual":    40000,
			"overrides": map[string]interface{}{"70": 50000},
		},
		"withdrawal_order": []interface{}{"SAVINGS", "ROTH_IRA"},
	})

	resp, err := server.RunProjection(context.Background(), req)
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, "0b6f0a8e-3f7c-4a53-9d7e-2f4f5b0c9a11", fields["id"].GetStringValue())
	assert.Equal(t, "2025-03-01T12:00:00Z", fields["created_at"].GetStringValue())
	assert.Equal(t, float64(88), fields["depletion_age"].GetNumberValue())

	years := fields["years"].GetListValue().GetValues()
	require.Len(t, years, 1)
	year := years[0].GetStructValue().GetFields()
	assert.Equal(t, "RETIREMENT", year["kind"].GetStringValue())
	assert.Equal(t, "40000.50", year["spending"].GetStringValue())
	assert.Equal(t, "0.00", year["income_tax"].GetStringValue())

	failures := fields["failures"].GetListValue().GetValues()
	require.Len(t, failures, 1)
	assert.Equal(t, "boom", failures[0].GetStructValue().GetFields()["error"].GetStringValue())

	runner.AssertExpectations(t)
}

func TestServer_RunProjection_NoDepletion(t *testing.T) {
	runner := new(MockProjectionRunner)
	server := NewServer(runner)

	p := sampleProjection()
	p.DepletionAge = nil
	runner.On("Run", mock.Anything, mock.Anything).Return(&projection.Result{Projection: p}, nil)

	resp, err := server.RunProjection(context.Background(), mustStruct(t, map[string]interface{}{"start_year": 2025}))
	require.NoError(t, err)

	_, isNull := resp.GetFields()["depletion_age"].GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull)
	assert.Empty(t, resp.GetFields()["failures"].GetListValue().GetValues())
}

func TestServer_RunProjection_Errors(t *testing.T) {
	tests := []struct {
		name         string
		request      map[string]interface{}
		runErr       error
		expectedCode codes.Code
		expectedMsg  string
	}{
		{
			name:         "Unknown Field",
			request:      map[string]interface{}{"start_yr": 2025},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "invalid assumptions",
		},
		{
			name:         "Wrong Type",
			request:      map[string]interface{}{"start_year": "soon"},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "invalid assumptions",
		},
		{
			name:         "Invalid Inputs",
			request:      map[string]interface{}{"start_year": 2025},
			runErr:       fmt.Errorf("%w: retirement_age = 10", domain.ErrInvalidInputs),
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "retirement_age",
		},
		{
			name:         "Cancelled",
			request:      map[string]interface{}{"start_year": 2025},
			runErr:       context.Canceled,
			expectedCode: codes.Canceled,
		},
		{
			name:         "Storage Failure",
			request:      map[string]interface{}{"start_year": 2025},
			runErr:       errors.New("failed to save projection: connection refused"),
			expectedCode: codes.Internal,
			expectedMsg:  "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockProjectionRunner)
			if tt.runErr != nil {
				runner.On("Run", mock.Anything, mock.Anything).Return(nil, tt.runErr)
			}
			server := NewServer(runner)

			_, err := server.RunProjection(context.Background(), mustStruct(t, tt.request))
			require.Error(t, err)

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Contains(t, st.Message(), tt.expectedMsg)
			if tt.runErr == nil {
				runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestServer_GetProjection(t *testing.T) {
	p := sampleProjection()

	tests := []struct {
		name         string
		id           string
		setupMock    func(*MockProjectionRunner)
		expectedCode codes.Code
	}{
		{
			name: "Found",
			id:   p.ID.String(),
			setupMock: func(m *MockProjectionRunner) {
				m.On("Get", mock.Anything, p.ID).Return(p, nil)
			},
			expectedCode: codes.OK,
		},
		{
			name:         "Malformed ID",
			id:           "not-a-uuid",
			setupMock:    func(m *MockProjectionRunner) {},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Not Found",
			id:   p.ID.String(),
			setupMock: func(m *MockProjectionRunner) {
				m.On("Get", mock.Anything, p.ID).Return(nil, fmt.Errorf("%w: %s", domain.ErrProjectionNotFound, p.ID))
			},
			expectedCode: codes.NotFound,
		},
		{
			name: "Persistence Disabled",
			id:   p.ID.String(),
			setupMock: func(m *MockProjectionRunner) {
				m.On("Get", mock.Anything, p.ID).Return(nil, projection.ErrPersistenceDisabled)
			},
			expectedCode: codes.FailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockProjectionRunner)
			tt.setupMock(runner)
			server := NewServer(runner)

			resp, err := server.GetProjection(context.Background(), mustStruct(t, map[string]interface{}{"id": tt.id}))
			if tt.expectedCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, p.ID.String(), resp.GetFields()["id"].GetStringValue())
				assert.Equal(t, float64(2026), resp.GetFields()["end_year"].GetNumberValue())
			} else {
				assert.Equal(t, tt.expectedCode, status.Code(err))
			}
			runner.AssertExpectations(t)
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "invalid amount", err: fmt.Errorf("%w: -1", domain.ErrInvalidAmount), want: codes.InvalidArgument},
		{name: "invalid epoch", err: domain.ErrInvalidInterestEpoch, want: codes.InvalidArgument},
		{name: "invalid account type", err: domain.ErrInvalidAccountType, want: codes.InvalidArgument},
		{name: "account not found", err: domain.ErrAccountNotFound, want: codes.NotFound},
		{name: "deadline", err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{name: "unknown", err: errors.New("disk on fire"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}

func TestProjectionService_OverTheWire(t *testing.T) {
	runner := new(MockProjectionRunner)
	p := sampleProjection()
	runner.On("Get", mock.Anything, p.ID).Return(p, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger.NewWithWriter(io.Discard, "error")),
		AuthInterceptor("wire-token"),
	))
	RegisterProjectionServiceServer(srv, NewServer(runner))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := NewProjectionServiceClient(conn)
	req := mustStruct(t, map[string]interface{}{"id": p.ID.String()})

	t.Run("Unauthenticated Without Token", func(t *testing.T) {
		_, err := client.GetProjection(context.Background(), req)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Authenticated", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer wire-token")
		resp, err := client.GetProjection(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, p.ID.String(), resp.GetFields()["id"].GetStringValue())
	})
}
