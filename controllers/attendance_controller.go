package controllers

import (
	"net/http"
	"time"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAttendanceController 定义考勤记录控制器接口
type InterfaceAttendanceController interface {
	GetAttendances()
	PurgeFuture()
}

// AttendanceController 处理考勤记录查询请求
type AttendanceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAttendanceController 创建一个新的考勤控制器
func NewAttendanceController(ctx *gin.Context, container *container.ServiceContainer) *AttendanceController {
	return &AttendanceController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAttendanceFunc 返回一个处理考勤请求的Gin处理函数
func HandleAttendanceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAttendanceController(ctx, container)

		switch method {
		case "getAttendances":
			controller.GetAttendances()
		case "purgeFuture":
			controller.PurgeFuture()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 时间过滤参数格式
const timeFilterLayout = "2006-01-02 15:04:05"

// 1. GetAttendances 分页查询考勤记录
// @Summary      查询考勤记录
// @Description  按设备、用户、时间范围分页查询考勤记录
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        device_sn   query  string  false  "设备序列号"
// @Param        user_id     query  string  false  "用户ID"
// @Param        start_time  query  string  false  "开始时间 2006-01-02 15:04:05"
// @Param        end_time    query  string  false  "结束时间 2006-01-02 15:04:05"
// @Param        pageNum     query  int     false  "页码"
// @Param        pageSize    query  int     false  "每页条数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /attendances [get]
func (c *AttendanceController) GetAttendances() {
	var query services.AttendanceQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		response.Fail(c.Ctx, code.ErrBind, nil)
		return
	}

	if raw := c.Ctx.Query("start_time"); raw != "" {
		t, err := time.ParseInLocation(timeFilterLayout, raw, time.Local)
		if err != nil {
			response.ParamError(c.Ctx, "无效的开始时间格式")
			return
		}
		query.StartTime = &t
	}
	if raw := c.Ctx.Query("end_time"); raw != "" {
		t, err := time.ParseInLocation(timeFilterLayout, raw, time.Local)
		if err != nil {
			response.ParamError(c.Ctx, "无效的结束时间格式")
			return
		}
		query.EndTime = &t
	}

	attendanceService := c.Container.GetService("attendance").(services.InterfaceAttendanceService)
	logs, pagination, err := attendanceService.GetAttendances(query)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询考勤记录失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"list":       logs,
		"pagination": pagination,
	})
}

// 2. PurgeFuture 时间合理性清理：删除打卡时间在未来的异常记录
// @Summary      清理未来时间的考勤记录
// @Description  删除打卡时间晚于服务器当前时间的异常记录
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /attendances/future [delete]
func (c *AttendanceController) PurgeFuture() {
	attendanceService := c.Container.GetService("attendance").(services.InterfaceAttendanceService)

	purged, err := attendanceService.PurgeFutureRecords()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "清理考勤记录失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"purged": purged})
}
