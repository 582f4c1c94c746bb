package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(payload{Name: "lean", Value: 2.5})
	}))
	defer srv.Close()

	var got payload
	require.NoError(t, GetJSON(context.Background(), srv.URL, &got))
	assert.Equal(t, payload{Name: "lean", Value: 2.5}, got)
}

func TestPutJSON_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.Value *= 2
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	var got payload
	require.NoError(t, PutJSON(context.Background(), srv.URL, payload{Name: "x", Value: 3}, &got))
	assert.Equal(t, 6.0, got.Value)
}

func TestPostJSON_NoBodyNoOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"ignored":true}`))
	}))
	defer srv.Close()

	assert.NoError(t, PostJSON(context.Background(), srv.URL, nil, nil))
}

func TestDoJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown preset"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	err := GetJSON(context.Background(), srv.URL, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "unknown preset")
}

func TestDoJSON_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := GetJSON(ctx, srv.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
