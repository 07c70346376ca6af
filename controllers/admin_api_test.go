package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adms-gateway-service/models"
	"adms-gateway-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// doAuthedRequest 携带Bearer令牌执行请求
func doAuthedRequest(r *gin.Engine, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	w := doRequest(r, http.MethodPost, "/api/auth/login", body)
	requireOK(t, w)

	var data struct {
		Token string `json:"token"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLoginAndAuthorizedAccess(t *testing.T) {
	r, db := newTestServer(t)

	hashed, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Username: "admin", Password: hashed}).Error)

	token := loginAs(t, r, "admin", "secret123")

	// 先让一台终端上线
	w := doRequest(r, http.MethodGet, "/iclock/cdata?SN=TERM-1&options=all", "")
	requireOK(t, w)

	w = doAuthedRequest(r, http.MethodGet, "/api/devices", token, "")
	requireOK(t, w)

	var devices []models.Device
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "TERM-1", devices[0].SerialNumber)
	assert.Equal(t, models.DeviceStatusOnline, devices[0].Status)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, db := newTestServer(t)

	hashed, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Username: "admin", Password: hashed}).Error)

	w := doRequest(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestServer(t)

	for _, target := range []string{
		"/api/devices",
		"/api/attendances",
		"/api/users",
		"/api/commands",
		"/api/bindings",
	} {
		w := doRequest(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}

	w := doAuthedRequest(r, http.MethodGet, "/api/devices", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBindingEndpointsArePublic(t *testing.T) {
	r, db := newTestServer(t)

	// 未知员工返回NEW_USER
	w := doRequest(r, http.MethodPost, "/api/app/bindings/check",
		`{"employee_id":"E1001","device_uuid":"uuid-a"}`)
	requireOK(t, w)
	env := decodeEnvelope(t, w)
	assert.Contains(t, string(env.Data), string(models.BindingNewUser))

	// 建立绑定
	w = doRequest(r, http.MethodPost, "/api/app/bindings",
		`{"employee_id":"E1001","device_uuid":"uuid-a","device_model":"Redmi Note 13"}`)
	requireOK(t, w)
	env = decodeEnvelope(t, w)
	assert.Contains(t, string(env.Data), string(models.BindingSuccess))

	var binding models.DeviceBinding
	require.NoError(t, db.Where("employee_id = ?", "E1001").First(&binding).Error)
	assert.Equal(t, "uuid-a", binding.DeviceUUID)
	assert.WithinDuration(t, time.Now(), binding.LastLogin, 5*time.Second)

	// 同一员工换设备被拒绝
	w = doRequest(r, http.MethodPost, "/api/app/bindings/check",
		`{"employee_id":"E1001","device_uuid":"uuid-b"}`)
	requireOK(t, w)
	env = decodeEnvelope(t, w)
	assert.Contains(t, string(env.Data), string(models.BindingBlocked))

	// 缺少必填字段返回参数错误
	w = doRequest(r, http.MethodPost, "/api/app/bindings/check", `{"employee_id":"E1001"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceQueryAndPurge(t *testing.T) {
	r, db := newTestServer(t)

	hashed, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{Username: "admin", Password: hashed}).Error)
	token := loginAs(t, r, "admin", "secret123")

	body := "7\t2024-05-01\t08:30:00\t0\t1\t0\n" +
		"7\t2099-01-01\t08:30:00\t0\t1\t0\n"
	w := doRequest(r, http.MethodPost, "/iclock/cdata?SN=TERM-1&table=ATTLOG", body)
	requireOK(t, w)

	w = doAuthedRequest(r, http.MethodGet, "/api/attendances?device_sn=TERM-1", token, "")
	requireOK(t, w)

	w = doAuthedRequest(r, http.MethodDelete, "/api/attendances/future", token, "")
	requireOK(t, w)

	var count int64
	db.Model(&models.AttendanceLog{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
