package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	token := func() string { return "tok-123" }
	return NewClient(srv.URL, 5*time.Second, token, opts...)
}

func TestLoginDecodesTokenAndRole(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "toadmaster", creds["username"])
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-999", "role_id": 2})
	}))
	res, err := client.Login(context.Background(), "toadmaster", "ribbit")
	require.NoError(t, err)
	assert.Equal(t, "tok-999", res.AccessToken)
	assert.Equal(t, 2, res.RoleID)
}

func TestBearerCredentialAttached(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	_, err := client.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUnauthorizedFiresHookAndReturnsAuthRequired(t *testing.T) {
	hookCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second, func() string { return "stale" },
		WithAuthExpiredHook(func() { hookCalls++ }))

	_, err := client.Orders(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthRequired), "expected ErrAuthRequired, got %v", err)
	assert.Equal(t, 1, hookCalls, "hook must fire exactly once per 401")
}

func TestRejectedSurfacesDetailVerbatim(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Fly Soup is sold out"})
	}))
	_, err := client.CreateOrder(context.Background())
	require.Error(t, err)
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.Equal(t, "Fly Soup is sold out", rejected.Detail)
}

func TestServerFaultHidesPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stack trace", http.StatusInternalServerError)
	}))
	err := client.ClearOrders(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServerFault))
	assert.NotContains(t, err.Error(), "stack trace")
}

func TestNetworkFailureMapsToUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := NewClient(url, time.Second, nil)
	_, err := client.Menu(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetworkUnreachable))
}

func TestAttachItemsBody(t *testing.T) {
	var gotPath string
	var gotBody map[string][]int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	err := client.AttachItems(context.Background(), 42, []int{3, 7})
	require.NoError(t, err)
	assert.Equal(t, "/api/cart/42", gotPath)
	assert.Equal(t, []int{3, 7}, gotBody["menu_items"])
}

func TestUpdateOrderStatusReturnsEcho(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/orders/7/status", r.URL.Path)
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 2, body["status_id"])
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "status_id": 2, "status": "cooking"})
	}))
	order, err := client.UpdateOrderStatus(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, order.ID)
	assert.Equal(t, 2, order.StatusID)
}
