package controllers_test

import (
	"net/http"
	"testing"

	"adms-gateway-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeGolden(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/iclock/cdata?SN=ABC&options=all", "")
	requireOK(t, w)

	expected := "GET OPTION FROM: ABC\n" +
		"Stamp=9999\n" +
		"OpStamp=9999\n" +
		"ErrorDelay=60\n" +
		"Delay=30\n" +
		"TransTimes=00:00;14:05\n" +
		"TransInterval=1\n" +
		"TransFlag=1111000000\n" +
		"Realtime=1\n" +
		"Encrypt=0"
	assert.Equal(t, expected, w.Body.String())
}

func TestMissingSerialIsHardError(t *testing.T) {
	r, _ := newTestServer(t)

	for _, target := range []string{
		"/iclock/cdata?options=all",
		"/iclock/getrequest",
		"/iclock/devicecmd",
	} {
		w := doRequest(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestAnyContactRecordsHeartbeat(t *testing.T) {
	r, db := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/iclock/cdata?SN=TERM-1&options=all", "")
	requireOK(t, w)

	var device models.Device
	require.NoError(t, db.Where("serial_number = ?", "TERM-1").First(&device).Error)
	assert.Equal(t, models.DeviceStatusOnline, device.Status)
}

func TestAttlogIngestionAlwaysAcknowledges(t *testing.T) {
	r, db := newTestServer(t)

	body := "7\t2024-05-01\t08:30:00\t0\t1\t0\n" +
		"garbage\n" +
		"8\t2024-05-01\t08:31:00\n"

	w := doRequest(r, http.MethodPost, "/iclock/cdata?SN=TERM-1&table=ATTLOG", body)
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())

	var count int64
	db.Model(&models.AttendanceLog{}).Count(&count)
	assert.EqualValues(t, 2, count)

	// 终端重传同一批数据仍回复OK且不产生新行
	w = doRequest(r, http.MethodPost, "/iclock/cdata?SN=TERM-1&table=ATTLOG", body)
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())
	db.Model(&models.AttendanceLog{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestOperlogMergesEntityLines(t *testing.T) {
	r, db := newTestServer(t)

	body := "USER PIN=2\tName=Sara\tPri=0\tPasswd=\tCard=55001\tGrp=1\n" +
		"OPLOG 4\t2024-05-01 09:00:00\t0\n"

	w := doRequest(r, http.MethodPost, "/iclock/cdata?SN=TERM-1&table=OPERLOG", body)
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())

	var user models.BiometricUser
	require.NoError(t, db.Where("user_id = ? AND device_sn = ?", "2", "TERM-1").First(&user).Error)
	assert.Equal(t, "Sara", user.Name)
}

func TestUnknownShapeDegradesToAck(t *testing.T) {
	r, _ := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/iclock/cdata?SN=TERM-1&table=SOMETHING", "")
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())
}

func TestGetRequestDrainsQueue(t *testing.T) {
	r, db := newTestServer(t)

	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9",
		Content:  "DATA UPDATE USERINFO PIN=1\tName=Ali\tPri=0\tPasswd=\tCard=\tGrp=1",
		Status:   models.CommandStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9",
		Content:  "DATA UPDATE FINGERTMP PIN=1\tFID=1\tSize=4\tValid=1\tTMP=AAAA",
		Status:   models.CommandStatusPending,
	}).Error)

	w := doRequest(r, http.MethodGet, "/iclock/getrequest?SN=TERM-9", "")
	requireOK(t, w)
	assert.Equal(t,
		"C:1:DATA UPDATE USERINFO PIN=1\tName=Ali\tPri=0\tPasswd=\tCard=\tGrp=1\n"+
			"C:2:DATA UPDATE FINGERTMP PIN=1\tFID=1\tSize=4\tValid=1\tTMP=AAAA",
		w.Body.String())

	var commands []models.DeviceCommand
	require.NoError(t, db.Find(&commands).Error)
	for _, cmd := range commands {
		assert.Equal(t, models.CommandStatusSent, cmd.Status)
	}

	// 队列排空后回复OK
	w = doRequest(r, http.MethodGet, "/iclock/getrequest?SN=TERM-9", "")
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())
}

func TestDeviceCmdSettlesLifecycle(t *testing.T) {
	r, db := newTestServer(t)

	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9", Content: "DATA UPDATE USERINFO PIN=1", Status: models.CommandStatusSent,
	}).Error)
	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9", Content: "DATA UPDATE USERINFO PIN=2", Status: models.CommandStatusSent,
	}).Error)

	body := "ID=1&Return=0&CMD=DATA\nID=2&Return=-1001&CMD=DATA\n"
	w := doRequest(r, http.MethodPost, "/iclock/devicecmd?SN=TERM-9", body)
	requireOK(t, w)
	assert.Equal(t, "OK", w.Body.String())

	var first, second models.DeviceCommand
	require.NoError(t, db.First(&first, 1).Error)
	require.NoError(t, db.First(&second, 2).Error)
	assert.Equal(t, models.CommandStatusSuccess, first.Status)
	assert.Equal(t, models.CommandStatusError, second.Status)
}
