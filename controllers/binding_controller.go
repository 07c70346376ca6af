package controllers

import (
	"net/http"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceBindingController 定义设备绑定控制器接口
type InterfaceBindingController interface {
	CheckStatus()
	Bind()
	GetBindings()
}

// BindingController 处理移动端设备绑定请求
type BindingController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBindingController 创建一个新的绑定控制器
func NewBindingController(ctx *gin.Context, container *container.ServiceContainer) *BindingController {
	return &BindingController{
		Ctx:       ctx,
		Container: container,
	}
}

// BindingCheckRequest 绑定状态检查请求
type BindingCheckRequest struct {
	EmployeeID string `json:"employee_id" binding:"required" example:"E1001"`
	DeviceUUID string `json:"device_uuid" binding:"required" example:"7b52009b-64fd-4a3a-95b5-7bd01f2d1bf7"`
}

// BindingRequest 绑定建立请求
type BindingRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required" example:"E1001"`
	DeviceUUID  string `json:"device_uuid" binding:"required" example:"7b52009b-64fd-4a3a-95b5-7bd01f2d1bf7"`
	DeviceModel string `json:"device_model" example:"Redmi Note 13"`
}

// HandleBindingFunc 返回一个处理绑定请求的Gin处理函数
func HandleBindingFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBindingController(ctx, container)

		switch method {
		case "checkStatus":
			controller.CheckStatus()
		case "bind":
			controller.Bind()
		case "getBindings":
			controller.GetBindings()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. CheckStatus 检查员工与设备的绑定状态
// @Summary      检查绑定状态
// @Description  无绑定返回NEW_USER，UUID匹配返回ALLOWED并刷新登录时间，不匹配返回BLOCKED
// @Tags         binding
// @Accept       json
// @Produce      json
// @Param        request  body  BindingCheckRequest  true  "检查参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /app/bindings/check [post]
func (c *BindingController) CheckStatus() {
	var req BindingCheckRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBindingIDRequired, nil)
		return
	}

	bindingService := c.Container.GetService("binding").(services.InterfaceBindingService)
	result, err := bindingService.CheckStatus(req.EmployeeID, req.DeviceUUID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "检查绑定状态失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"result": result})
}

// 2. Bind 建立绑定，一次性操作，已有绑定一律拒绝
// @Summary      建立设备绑定
// @Description  员工首次绑定移动设备，已存在绑定时返回BLOCKED
// @Tags         binding
// @Accept       json
// @Produce      json
// @Param        request  body  BindingRequest  true  "绑定参数"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /app/bindings [post]
func (c *BindingController) Bind() {
	var req BindingRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBindingIDRequired, nil)
		return
	}

	bindingService := c.Container.GetService("binding").(services.InterfaceBindingService)
	result, err := bindingService.Bind(req.EmployeeID, req.DeviceUUID, req.DeviceModel)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "建立绑定失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"result": result})
}

// 3. GetBindings 获取所有绑定记录（后台）
// @Summary      获取绑定列表
// @Description  获取所有员工与移动设备的绑定记录
// @Tags         binding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /bindings [get]
func (c *BindingController) GetBindings() {
	bindingService := c.Container.GetService("binding").(services.InterfaceBindingService)

	bindings, err := bindingService.GetBindings()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取绑定列表失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, bindings)
}
