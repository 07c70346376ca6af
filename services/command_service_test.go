package services

import (
	"testing"

	"adms-gateway-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProvisioningData(t *testing.T, svc InterfaceSyncService) {
	t.Helper()

	for _, u := range []UserPatch{
		{UserID: "1", DeviceSN: "TERM-1", Name: "Ali", Password: "123", CardNumber: "10001"},
		{UserID: "2", DeviceSN: "TERM-1", Name: "Sara"},
		{UserID: "3", DeviceSN: "TERM-2", Name: "Omar"},
	} {
		_, err := svc.MergeUser(u)
		require.NoError(t, err)
	}

	for _, f := range []models.FingerprintTemplate{
		{UserID: "1", FingerID: 1, DeviceSN: "TERM-1", Template: "AAAA", Valid: 1},
		{UserID: "2", FingerID: 0, DeviceSN: "TERM-1", Template: "BBBB", Valid: 1},
		{UserID: "3", FingerID: 1, DeviceSN: "TERM-2", Template: "CCCC", Valid: 0},
	} {
		_, err := svc.MergeFingerprint(f)
		require.NoError(t, err)
	}
}

func TestQueueProvisioningFansOutAllEntities(t *testing.T) {
	db := newTestDB(t)
	syncSvc := NewSyncService(db, newTestConfig())
	cmdSvc := NewCommandService(db, newTestConfig())

	seedProvisioningData(t, syncSvc)

	// 3个用户 + 2个有效指纹，无效指纹不下发；不按来源设备过滤
	count, err := cmdSvc.QueueProvisioning("TERM-9")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	var commands []models.DeviceCommand
	require.NoError(t, db.Find(&commands).Error)
	require.Len(t, commands, 5)
	for _, cmd := range commands {
		assert.Equal(t, "TERM-9", cmd.DeviceSN)
		assert.Equal(t, models.CommandStatusPending, cmd.Status)
	}
}

func TestQueueProvisioningCommandFormats(t *testing.T) {
	db := newTestDB(t)
	syncSvc := NewSyncService(db, newTestConfig())
	cmdSvc := NewCommandService(db, newTestConfig())

	_, err := syncSvc.MergeUser(UserPatch{UserID: "1", DeviceSN: "TERM-1", Name: "Ali", Password: "123", CardNumber: "10001"})
	require.NoError(t, err)
	_, err = syncSvc.MergeFingerprint(models.FingerprintTemplate{UserID: "1", FingerID: 1, DeviceSN: "TERM-1", Template: "AAAA", Valid: 1})
	require.NoError(t, err)

	_, err = cmdSvc.QueueProvisioning("TERM-9")
	require.NoError(t, err)

	var commands []models.DeviceCommand
	require.NoError(t, db.Order("id").Find(&commands).Error)
	require.Len(t, commands, 2)

	assert.Equal(t, "DATA UPDATE USERINFO PIN=1\tName=Ali\tPri=0\tPasswd=123\tCard=10001\tGrp=1", commands[0].Content)
	assert.Equal(t, "DATA UPDATE FINGERTMP PIN=1\tFID=1\tSize=4\tValid=1\tTMP=AAAA", commands[1].Content)
}

func TestQueueProvisioningRequiresTarget(t *testing.T) {
	db := newTestDB(t)
	cmdSvc := NewCommandService(db, newTestConfig())

	_, err := cmdSvc.QueueProvisioning("")
	assert.Error(t, err)
}

func TestDrainPendingMarksSentExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	syncSvc := NewSyncService(db, newTestConfig())
	cmdSvc := NewCommandService(db, newTestConfig())

	seedProvisioningData(t, syncSvc)
	_, err := cmdSvc.QueueProvisioning("TERM-9")
	require.NoError(t, err)

	commands, err := cmdSvc.DrainPending("TERM-9")
	require.NoError(t, err)
	assert.Len(t, commands, 5)
	for _, cmd := range commands {
		assert.Equal(t, models.CommandStatusSent, cmd.Status)
	}

	// 再次轮询不得重复下发
	commands, err = cmdSvc.DrainPending("TERM-9")
	require.NoError(t, err)
	assert.Empty(t, commands)

	// 其他终端的队列不受影响
	commands, err = cmdSvc.DrainPending("TERM-1")
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestAcknowledgeSettlesCommand(t *testing.T) {
	db := newTestDB(t)
	cmdSvc := NewCommandService(db, newTestConfig())

	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9", Content: "DATA UPDATE USERINFO PIN=1", Status: models.CommandStatusSent,
	}).Error)
	require.NoError(t, db.Create(&models.DeviceCommand{
		DeviceSN: "TERM-9", Content: "DATA UPDATE USERINFO PIN=2", Status: models.CommandStatusSent,
	}).Error)

	require.NoError(t, cmdSvc.Acknowledge(1, 0))
	require.NoError(t, cmdSvc.Acknowledge(2, -1001))

	var first, second models.DeviceCommand
	require.NoError(t, db.First(&first, 1).Error)
	require.NoError(t, db.First(&second, 2).Error)
	assert.Equal(t, models.CommandStatusSuccess, first.Status)
	assert.Equal(t, models.CommandStatusError, second.Status)
}

func TestAcknowledgeUnknownCommand(t *testing.T) {
	db := newTestDB(t)
	cmdSvc := NewCommandService(db, newTestConfig())

	assert.Error(t, cmdSvc.Acknowledge(999, 0))
}
