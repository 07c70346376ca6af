package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"adms-gateway-service/config"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceIclockController 定义ADMS协议控制器接口
type InterfaceIclockController interface {
	CData()
	GetRequest()
	DeviceCmd()
}

// IclockController 处理终端推送协议请求。协议为纯文本：终端无法理解
// 结构化错误，除缺少SN外任何分支最终都回复固件期望的确认标记
type IclockController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewIclockController 创建一个新的ADMS协议控制器
func NewIclockController(ctx *gin.Context, container *container.ServiceContainer) *IclockController {
	return &IclockController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleIclockFunc 返回一个处理终端协议请求的Gin处理函数
func HandleIclockFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewIclockController(ctx, container)

		switch method {
		case "cdata":
			controller.CData()
		case "getrequest":
			controller.GetRequest()
		case "devicecmd":
			controller.DeviceCmd()
		default:
			ctx.String(http.StatusBadRequest, "error")
		}
	}
}

// 握手响应为固件约定的固定配置块，必须逐字节复现
const handshakeFormat = "GET OPTION FROM: %s\n" +
	"Stamp=9999\n" +
	"OpStamp=9999\n" +
	"ErrorDelay=60\n" +
	"Delay=30\n" +
	"TransTimes=00:00;14:05\n" +
	"TransInterval=1\n" +
	"TransFlag=1111000000\n" +
	"Realtime=1\n" +
	"Encrypt=0"

// requireSerial 校验SN参数。缺少SN是硬错误，直接终止
func (c *IclockController) requireSerial() (string, bool) {
	sn := c.Ctx.Query("SN")
	if sn == "" {
		c.Ctx.String(http.StatusBadRequest, "error: SN is required")
		c.Ctx.Abort()
		return "", false
	}
	return sn, true
}

// recordHeartbeat 任何分支处理前先刷新设备心跳，失败只记录日志
func (c *IclockController) recordHeartbeat(sn string) {
	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	if err := deviceService.RecordContact(sn, c.Ctx.ClientIP()); err != nil {
		config.Warning("记录设备心跳失败 sn=%s: %v", sn, err)
		return
	}

	realtime := c.Container.GetService("realtime").(services.InterfaceRealtimeService)
	if err := realtime.PublishDeviceOnline(sn, c.Ctx.ClientIP()); err != nil {
		config.Warning("推送设备上线消息失败 sn=%s: %v", sn, err)
	}
}

// 1. CData 处理 /iclock/cdata：按请求形态路由到握手、考勤接收或操作日志
// @Summary      终端数据交换端点
// @Description  处理终端握手(options=all)、考勤记录上传(table=ATTLOG)和操作日志(table=OPERLOG)
// @Tags         iclock
// @Accept       plain
// @Produce      plain
// @Param        SN       query  string  true   "设备序列号"
// @Param        options  query  string  false  "握手选项，固件传all"
// @Param        table    query  string  false  "数据表选择器：ATTLOG/OPERLOG"
// @Success      200  {string}  string  "OK 或握手配置块"
// @Failure      400  {string}  string  "缺少SN"
// @Router       /iclock/cdata [post]
func (c *IclockController) CData() {
	sn, ok := c.requireSerial()
	if !ok {
		return
	}
	c.recordHeartbeat(sn)

	table := c.Ctx.Query("table")
	options := c.Ctx.Query("options")

	switch {
	case options == "all" && table == "":
		// 握手：回复固定配置块
		c.Ctx.String(http.StatusOK, fmt.Sprintf(handshakeFormat, sn))

	case table == "ATTLOG":
		body := c.readBody()
		attendanceService := c.Container.GetService("attendance").(services.InterfaceAttendanceService)
		stored, skipped := attendanceService.IngestBatch(sn, body)
		config.Info("考勤上传 sn=%s 入库=%d 跳过=%d", sn, stored, skipped)
		// 终端没有部分失败的概念，无论多少行失败都回复OK
		c.Ctx.String(http.StatusOK, "OK")

	case table == "OPERLOG":
		body := c.readBody()
		syncService := c.Container.GetService("sync").(services.InterfaceSyncService)
		users, fingerprints := syncService.ApplyOperationLog(sn, body)
		if users > 0 || fingerprints > 0 {
			config.Info("操作日志 sn=%s 合并用户=%d 指纹=%d", sn, users, fingerprints)
		}
		c.Ctx.String(http.StatusOK, "OK")

	default:
		// 未知请求形态一律降级为通用确认
		c.Ctx.String(http.StatusOK, "OK")
	}
}

// 2. GetRequest 处理 /iclock/getrequest：终端轮询待下发命令。
// 取出该终端全部PENDING命令标记为SENT并按 C:<id>:<命令文本> 返回，
// 队列为空时回复OK
// @Summary      终端命令轮询端点
// @Description  终端定期轮询此端点获取待下发的用户/指纹命令
// @Tags         iclock
// @Produce      plain
// @Param        SN  query  string  true  "设备序列号"
// @Success      200  {string}  string  "命令行或OK"
// @Failure      400  {string}  string  "缺少SN"
// @Router       /iclock/getrequest [get]
func (c *IclockController) GetRequest() {
	sn, ok := c.requireSerial()
	if !ok {
		return
	}
	c.recordHeartbeat(sn)

	commandService := c.Container.GetService("command").(services.InterfaceCommandService)
	commands, err := commandService.DrainPending(sn)
	if err != nil {
		config.Error("获取待下发命令失败 sn=%s: %v", sn, err)
		c.Ctx.String(http.StatusOK, "OK")
		return
	}
	if len(commands) == 0 {
		c.Ctx.String(http.StatusOK, "OK")
		return
	}

	lines := make([]string, 0, len(commands))
	for _, cmd := range commands {
		lines = append(lines, fmt.Sprintf("C:%d:%s", cmd.ID, cmd.Content))
	}
	c.Ctx.String(http.StatusOK, strings.Join(lines, "\n"))
}

// 3. DeviceCmd 处理 /iclock/devicecmd：终端对已下发命令的执行回执。
// 请求体形如 ID=<id>&Return=<code>&CMD=DATA，Return=0 记为SUCCESS，
// 其他值记为ERROR
// @Summary      终端命令回执端点
// @Description  终端上报命令执行结果，推进命令生命周期状态
// @Tags         iclock
// @Accept       plain
// @Produce      plain
// @Param        SN  query  string  true  "设备序列号"
// @Success      200  {string}  string  "OK"
// @Failure      400  {string}  string  "缺少SN"
// @Router       /iclock/devicecmd [post]
func (c *IclockController) DeviceCmd() {
	sn, ok := c.requireSerial()
	if !ok {
		return
	}
	c.recordHeartbeat(sn)

	body := c.readBody()
	commandService := c.Container.GetService("command").(services.InterfaceCommandService)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		values, err := url.ParseQuery(line)
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(values.Get("ID"))
		if err != nil {
			continue
		}
		// Return 缺失按失败处理
		returnCode, err := strconv.Atoi(values.Get("Return"))
		if err != nil {
			returnCode = -1
		}
		if ackErr := commandService.Acknowledge(uint(id), returnCode); ackErr != nil {
			config.Warning("处理命令回执失败 sn=%s id=%d: %v", sn, id, ackErr)
		}
	}

	c.Ctx.String(http.StatusOK, "OK")
}

// readBody 读取请求体，失败返回空串
func (c *IclockController) readBody() string {
	if c.Ctx.Request.Body == nil {
		return ""
	}
	data, err := io.ReadAll(c.Ctx.Request.Body)
	if err != nil {
		config.Warning("读取请求体失败: %v", err)
		return ""
	}
	return string(data)
}
