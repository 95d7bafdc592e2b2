package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/danbrewer/letsretire-backend/internal/logger"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Valid Bearer Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer "+validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Bearer Prefix With Wrong Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer nope"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: RunProjectionMethod,
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	buf := &bytes.Buffer{}
	interceptor := LoggingInterceptor(logger.NewWithWriter(buf, "debug"))
	info := &grpc.UnaryServerInfo{FullMethod: GetProjectionMethod}

	t.Run("Success Attaches Logger", func(t *testing.T) {
		buf.Reset()
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			log := logger.FromContext(ctx)
			log.Info().Msg("inside handler")
			return "ok", nil
		}

		resp, err := interceptor(context.Background(), "req", info, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)

		output := buf.String()
		assert.Contains(t, output, "inside handler")
		assert.Contains(t, output, `"method":"`+GetProjectionMethod+`"`)
		assert.Contains(t, output, `"code":"OK"`)
	})

	t.Run("Failure Logs Status Code", func(t *testing.T) {
		buf.Reset()
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.NotFound, "missing")
		}

		_, err := interceptor(context.Background(), "req", info, handler)
		require.Error(t, err)

		output := buf.String()
		assert.Contains(t, output, `"level":"warn"`)
		assert.Contains(t, output, `"code":"NotFound"`)
	})

	t.Run("Plain Error Logged As Unknown", func(t *testing.T) {
		buf.Reset()
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		}

		_, err := interceptor(context.Background(), "req", info, handler)
		require.Error(t, err)
		assert.Contains(t, buf.String(), `"code":"Unknown"`)
	})
}
