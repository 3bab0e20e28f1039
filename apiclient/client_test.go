package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api", Token: "service-token", Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "not-a-url"}, nil)
	assert.Error(t, err)

	c, err := New(Config{BaseURL: "http://localhost:3000/api"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestDo_BuildsRequest(t *testing.T) {
	var gotPath, gotMethod, gotAuth, gotContentType string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":9}`))
	})

	raw, err := c.Do(context.Background(), RequestArgs{
		Endpoint:   "partidos/%v/resultado",
		Method:     http.MethodPut,
		PathParams: []any{42},
		Body:       map[string]string{"resultado": "Ganado"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, string(raw))
	assert.Equal(t, "/api/partidos/42/resultado", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Bearer service-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Ganado", gotBody["resultado"])
}

func TestDo_ForwardsOperatorToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	ctx := WithBearerToken(context.Background(), "operator-token")
	_, err := c.Do(ctx, RequestArgs{Endpoint: "tipos-accion"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer operator-token", gotAuth)
}

func TestDo_ClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantMessage string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"Set no encontrado"}`, wantErr: ErrNotFound, wantMessage: "Set no encontrado"},
		{name: "conflict", status: http.StatusConflict, body: `{"error":"El set ya existe"}`, wantErr: ErrConflict, wantMessage: "El set ya existe"},
		{name: "bad request", status: http.StatusBadRequest, body: `{"detail":"puntos inválidos"}`, wantErr: ErrBadRequest, wantMessage: "puntos inválidos"},
		{name: "forbidden", status: http.StatusForbidden, body: ``, wantErr: ErrUnauthorized, wantMessage: "Forbidden"},
		{name: "server error with html", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: ErrServer, wantMessage: "Bad Gateway"},
		{name: "server error plain text", status: http.StatusInternalServerError, body: `database down`, wantErr: ErrServer, wantMessage: "database down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Do(context.Background(), RequestArgs{Endpoint: "sets/%v", Method: http.MethodDelete, PathParams: []any{1}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Equal(t, tt.wantMessage, Message(err))
		})
	}
}

func TestDo_TransientWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: baseURL, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), RequestArgs{Endpoint: "tipos-accion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, 0, StatusCode(err))
}

func TestDo_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, RequestArgs{Endpoint: "tipos-accion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchList_ToleratesEnvelopes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,"nombre":"Saque"}]}`))
	})

	items, err := FetchList[item](context.Background(), c, RequestArgs{Endpoint: "tipos-accion"})
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "Saque"}}, items)
}

func TestFetchItem_EmptyPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := FetchItem[item](context.Background(), c, RequestArgs{Endpoint: "sets", Method: http.MethodPost, Body: map[string]int{"numero_set": 1}})
	require.NoError(t, err)
	assert.Nil(t, got)
}
