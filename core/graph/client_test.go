package graph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pns-snapshot/core/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type accountsData struct {
	Accounts []struct {
		ID string `json:"id"`
	} `json:"accounts"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32, *metrics.Metrics) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	m := metrics.Nop()
	c := NewClient(Config{
		Endpoint:       srv.URL,
		TimeoutSeconds: 5,
		MaxRetries:     2,
		RetryDelayMS:   1,
	}, zap.NewNop(), WithMetrics(m))
	return c, &calls, m
}

func TestClient_Query_Success(t *testing.T) {
	var got Request
	c, calls, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":{"accounts":[{"id":"0x1"},{"id":"0x2"}]}}`))
	})

	var out accountsData
	err := c.Query(context.Background(), Request{
		OperationName: "QueryAccounts",
		Query:         "query QueryAccounts($skip: Int) { accounts { id } }",
		Variables:     map[string]any{"skip": 500},
	}, &out)
	require.NoError(t, err)

	require.Len(t, out.Accounts, 2)
	assert.Equal(t, "0x2", out.Accounts[1].ID)
	assert.Equal(t, "QueryAccounts", got.OperationName)
	assert.Equal(t, float64(500), got.Variables["skip"])
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphRequests.WithLabelValues("QueryAccounts", "ok")))
}

func TestClient_Query_RetriesTransientStatus(t *testing.T) {
	var n atomic.Int32
	c, calls, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":{"accounts":[]}}`))
	})

	var out accountsData
	require.NoError(t, c.Query(context.Background(), Request{OperationName: "Q", Query: "{}"}, &out))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphRetries.WithLabelValues("Q")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphRequests.WithLabelValues("Q", "transient")))
}

func TestClient_Query_GivesUpAfterMaxRetries(t *testing.T) {
	c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	var out accountsData
	err := c.Query(context.Background(), Request{OperationName: "Q", Query: "{}"}, &out)
	require.Error(t, err)
	assert.True(t, IsTransient(err))

	var transient *TransientError
	require.True(t, errors.As(err, &transient))
	assert.Equal(t, http.StatusTooManyRequests, transient.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Query_PermanentFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "GraphQLErrors",
			status: http.StatusOK,
			body:   `{"data":null,"errors":[{"message":"bad field"},{"message":"bad arg"}]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsResponseError(err))
				assert.Contains(t, err.Error(), "bad field; bad arg")
			},
		},
		{
			name:   "NullData",
			status: http.StatusOK,
			body:   `{"data":null}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoData)
			},
		},
		{
			name:   "MissingData",
			status: http.StatusOK,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoData)
			},
		},
		{
			name:   "BadRequest",
			status: http.StatusBadRequest,
			body:   `invalid query`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, "invalid query", statusErr.Body)
			},
		},
		{
			name:   "Garbage",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsResponseError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			var out accountsData
			err := c.Query(context.Background(), Request{OperationName: "Q", Query: "{}"}, &out)
			require.Error(t, err)
			assert.False(t, IsTransient(err))
			assert.Equal(t, int32(1), calls.Load())
			tt.check(t, err)
		})
	}
}

func TestClient_Query_DecodesNumbersAsJSONNumber(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"createdAt":1669032000}}`))
	})

	var out struct {
		CreatedAt any `json:"createdAt"`
	}
	require.NoError(t, c.Query(context.Background(), Request{Query: "{}"}, &out))
	assert.Equal(t, json.Number("1669032000"), out.CreatedAt)
}

func TestClient_Query_CancelledContext(t *testing.T) {
	c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out accountsData
	err := c.Query(ctx, Request{Query: "{}"}, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}
