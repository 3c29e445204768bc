package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytransfer/backend/internal/auth"
	"github.com/easytransfer/backend/internal/service"
	"github.com/easytransfer/backend/internal/store"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *auth.Validator) {
	t.Helper()

	st := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(
		service.NewRequestService(st),
		service.NewContactService(st, 5),
		logger,
	)

	validator := auth.NewValidator(testSecret)
	srv := httptest.NewServer(NewRouter(handler, validator, logger))
	t.Cleanup(srv.Close)
	return srv, validator
}

func bearerToken(t *testing.T, v *auth.Validator, accountID int64) string {
	t.Helper()
	token, err := v.Issue(accountID, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestPingUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body["status"])
}

func TestPingAuth(t *testing.T) {
	srv, v := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/ping-auth", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "token not provided", body["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := v.Issue(1, -time.Minute)
		require.NoError(t, err)
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/ping-auth", expired, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "invalid token", body["error"])
	})

	t.Run("valid token", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/ping-auth", bearerToken(t, v, 1), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "pong", body["status"])
		assert.Equal(t, true, body["authenticated"])
	})
}

func TestExpiredTokenRejectedOnDataRoutes(t *testing.T) {
	srv, v := newTestServer(t)

	expired, err := v.Issue(1, -time.Minute)
	require.NoError(t, err)

	payload := map[string]interface{}{"phone_number": "5551234567", "amount": 90}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/requests", expired, payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token", body["error"])
}

func TestRequestLifecycleEndToEnd(t *testing.T) {
	srv, v := newTestServer(t)
	token := bearerToken(t, v, 1)

	// Create.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/requests", token,
		map[string]interface{}{"phone_number": "5551234567", "amount": 90})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["request_id"])
	assert.Equal(t, "Pending", body["status"])

	// Claim.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/requests/next", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["request_id"])
	assert.Equal(t, "5551234567", body["phone_number"])
	assert.Equal(t, float64(90), body["amount"])
	assert.Equal(t, "ok", body["status"])

	// Record result.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/requests/1/result", token,
		map[string]interface{}{"status": "Success", "message": "done"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["request_id"])
	assert.Equal(t, "Done", body["final_status"])
	assert.Equal(t, "done", body["message"])

	// Status.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/requests/status/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Done", body["status"])
}

func TestClaimEmptyQueue(t *testing.T) {
	srv, v := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/requests/next", bearerToken(t, v, 2), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "empty", body["status"])
	assert.Equal(t, "no pending requests", body["message"])
}

func TestCreateRequestValidation(t *testing.T) {
	srv, v := newTestServer(t)
	token := bearerToken(t, v, 1)

	cases := []struct {
		name    string
		payload map[string]interface{}
		wantErr string
	}{
		{"missing phone", map[string]interface{}{"amount": 90}, "phone number is required"},
		{"negative amount", map[string]interface{}{"phone_number": "5551234567", "amount": -1}, "amount must be greater than 0"},
		{"huge amount", map[string]interface{}{"phone_number": "5551234567", "amount": 1e12}, "amount is too large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/requests", token, tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.wantErr, body["error"])
		})
	}
}

func TestRecordResultInvalidStatus(t *testing.T) {
	srv, v := newTestServer(t)
	token := bearerToken(t, v, 1)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/requests", token,
		map[string]interface{}{"phone_number": "5551234567", "amount": 90})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/requests/1/result", token,
		map[string]interface{}{"status": "Maybe", "message": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "status must be Success or Failed", body["error"])
}

func TestForeignRequestLooksAbsent(t *testing.T) {
	srv, v := newTestServer(t)
	owner := bearerToken(t, v, 1)
	other := bearerToken(t, v, 2)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/requests", owner,
		map[string]interface{}{"phone_number": "5551234567", "amount": 90})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/requests/status/1", other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "request not found", body["error"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/requests/1/result", other,
		map[string]interface{}{"status": "Success", "message": ""})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "request not found", body["error"])
}

func TestContactsCRUD(t *testing.T) {
	srv, v := newTestServer(t)
	token := bearerToken(t, v, 1)

	// Create.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/contacts", token,
		map[string]interface{}{"phone_number": "5551234567", "name": "Ahmed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "contact added successfully", body["message"])
	contactID := int64(body["contact_id"].(float64))

	// Duplicate name, different case.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/contacts", token,
		map[string]interface{}{"phone_number": "5559999999", "name": "AHMED"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "already exists")

	// List.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/contacts", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	contacts := body["contacts"].([]interface{})
	require.Len(t, contacts, 1)

	// Delete.
	resp, body = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/contacts/%d", srv.URL, contactID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "contact deleted successfully", body["message"])

	// Delete again.
	resp, body = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/contacts/%d", srv.URL, contactID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "contact not found", body["error"])
}

func TestContactLimit(t *testing.T) {
	srv, v := newTestServer(t)
	token := bearerToken(t, v, 1)

	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/contacts", token,
			map[string]interface{}{"phone_number": "5551234567", "name": fmt.Sprintf("Contact %d", i)})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/contacts", token,
		map[string]interface{}{"phone_number": "5551234567", "name": "One Too Many"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "contact limit reached")
}
