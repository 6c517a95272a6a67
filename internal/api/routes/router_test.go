package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/api/middleware"
	"github.com/linskybing/orgflow/internal/api/routes"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/storage"
	"github.com/linskybing/orgflow/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t *testing.T
	r *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prevSecret, prevTTL, prevUpload := config.JwtSecret, config.TokenTTLHours, config.MaxUploadMB
	config.JwtSecret, config.TokenTTLHours, config.MaxUploadMB = "router-test", 1, 1
	middleware.Init()
	t.Cleanup(func() {
		config.JwtSecret, config.TokenTTLHours, config.MaxUploadMB = prevSecret, prevTTL, prevUpload
		middleware.Init()
	})

	store, err := storage.NewLocalDriver(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	routes.RegisterRoutes(r, testutils.NewTestDB(t), store)
	return &client{t: t, r: r}
}

func (c *client) do(method, path, token string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (c *client) list(path, token string) []map[string]any {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var out []map[string]any
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (c *client) register(username string) uint {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/register", "", map[string]any{"username": username, "password": "secret123"})
	require.Equal(c.t, http.StatusCreated, code, body)
	return uint(body["id"].(float64))
}

func (c *client) login(username string, groupID uint) string {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/login", "", map[string]any{"username": username, "password": "secret123", "group_id": groupID})
	require.Equal(c.t, http.StatusOK, code, body)
	return body["token"].(string)
}

func id(body map[string]any) uint {
	return uint(body["id"].(float64))
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	code, body := c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	c := newClient(t)

	c.register("alice")
	bobID := c.register("bob")
	carolID := c.register("carol")

	// bootstrap a group with a token that has no group yet
	code, body := c.do(http.MethodPost, "/groups", c.login("alice", 0), map[string]any{"name": "Finance"})
	require.Equal(t, http.StatusCreated, code, body)
	groupID := id(body)
	admin := c.login("alice", groupID)

	for uid, role := range map[uint]string{bobID: "ACCOUNTANT", carolID: "EMPLOYEE"} {
		code, body = c.do(http.MethodPost, fmt.Sprintf("/groups/%d/members", groupID), admin, map[string]any{"user_id": uid, "role": role})
		require.Equal(t, http.StatusCreated, code, body)
	}
	accountant := c.login("bob", groupID)
	employee := c.login("carol", groupID)

	code, _ = c.do(http.MethodPost, "/routes", employee, map[string]any{"name": "x", "steps": []any{map[string]any{"approver_role": "ADMIN"}}})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = c.do(http.MethodPost, "/routes", admin, map[string]any{
		"name": "Expense approval",
		"steps": []any{
			map[string]any{"approver_role": "ACCOUNTANT"},
			map[string]any{"approver_role": "ADMIN"},
		},
	})
	require.Equal(t, http.StatusCreated, code, body)
	routeID := id(body)

	code, body = c.do(http.MethodPost, "/templates", admin, map[string]any{
		"name":     "Expense claim",
		"route_id": routeID,
		"fields": map[string]any{"items": []any{
			map[string]any{"id": "amount", "label": "Amount", "type": "number", "required": true, "min": 0},
		}},
	})
	require.Equal(t, http.StatusCreated, code, body)
	templateID := id(body)

	code, body = c.do(http.MethodPost, "/applications", employee, map[string]any{
		"template_id": templateID, "title": "Taxi", "data": map[string]any{"amount": -5},
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Amount must be at least 0", body["error"])

	code, body = c.do(http.MethodPost, "/applications", employee, map[string]any{
		"template_id": templateID, "title": "Taxi", "data": map[string]any{"amount": "42"},
	})
	require.Equal(t, http.StatusCreated, code, body)
	appID := id(body)
	assert.Equal(t, "PENDING", body["status"])

	assert.Len(t, c.list("/applications/inbox", accountant), 1)
	assert.Empty(t, c.list("/applications/inbox", admin))

	path := fmt.Sprintf("/applications/%d", appID)
	code, _ = c.do(http.MethodPatch, path, admin, map[string]any{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPatch, path, accountant, map[string]any{"action": "escalate"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodPatch, path, accountant, map[string]any{"action": "approve", "comment": "ok"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, float64(2), body["current_step"])

	code, body = c.do(http.MethodPatch, path, admin, map[string]any{"action": "approve"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "APPROVED", body["status"])
	assert.Nil(t, body["current_step"])

	code, _ = c.do(http.MethodPatch, path, admin, map[string]any{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, code)

	mine := c.list("/applications/my?status=APPROVED", employee)
	assert.Len(t, mine, 1)

	code, _ = c.do(http.MethodGet, "/applications", employee, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Len(t, c.list("/applications", admin), 1)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/routes/%d", routeID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProtectedRoutesNeedMembership(t *testing.T) {
	c := newClient(t)
	c.register("dave")

	code, _ := c.do(http.MethodGet, "/templates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	groupless := c.login("dave", 0)
	code, _ = c.do(http.MethodGet, "/templates", groupless, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Empty(t, c.list("/groups/my", groupless))

	code, _ = c.do(http.MethodPost, "/login", "", map[string]any{"username": "dave", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	c := newClient(t)
	c.register("erin")
	_, body := c.do(http.MethodPost, "/groups", c.login("erin", 0), map[string]any{"name": "Ops"})
	token := c.login("erin", id(body))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "receipt.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("paid 42"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var att map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &att))

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/attachments/%d", id(att)), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid 42", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt.txt")
}
