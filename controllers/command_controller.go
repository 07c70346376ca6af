package controllers

import (
	"net/http"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/models"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceCommandController 定义命令队列控制器接口
type InterfaceCommandController interface {
	QueueProvisioning()
	GetCommands()
}

// CommandController 处理下发命令队列相关的请求
type CommandController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCommandController 创建一个新的命令控制器
func NewCommandController(ctx *gin.Context, container *container.ServiceContainer) *CommandController {
	return &CommandController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCommandFunc 返回一个处理命令队列请求的Gin处理函数
func HandleCommandFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCommandController(ctx, container)

		switch method {
		case "queueProvisioning":
			controller.QueueProvisioning()
		case "getCommands":
			controller.GetCommands()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. QueueProvisioning 触发全量下发：把库中所有用户和有效指纹
// 入队给目标终端。广播操作，目标序列号必须显式给出
// @Summary      触发全量下发
// @Description  将所有用户和有效指纹模板入队给指定终端，用于整机恢复
// @Tags         command
// @Produce      json
// @Security     BearerAuth
// @Param        sn  path  string  true  "目标设备序列号"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /commands/{sn} [post]
func (c *CommandController) QueueProvisioning() {
	sn := c.Ctx.Param("sn")
	if sn == "" {
		response.Fail(c.Ctx, code.ErrSerialRequired, nil)
		return
	}

	commandService := c.Container.GetService("command").(services.InterfaceCommandService)
	count, err := commandService.QueueProvisioning(sn)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrQueueFailed, "命令入队失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"target": sn, "queued": count})
}

// 2. GetCommands 分页查询命令及生命周期状态
// @Summary      查询下发命令
// @Description  按目标终端分页查询命令队列
// @Tags         command
// @Produce      json
// @Security     BearerAuth
// @Param        device_sn  query  string  false  "目标设备序列号"
// @Param        pageNum    query  int     false  "页码"
// @Param        pageSize   query  int     false  "每页条数"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /commands [get]
func (c *CommandController) GetCommands() {
	var page models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&page); err != nil {
		response.Fail(c.Ctx, code.ErrBind, nil)
		return
	}

	commandService := c.Container.GetService("command").(services.InterfaceCommandService)
	commands, pagination, err := commandService.GetCommands(c.Ctx.Query("device_sn"), page)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询命令失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"list":       commands,
		"pagination": pagination,
	})
}
