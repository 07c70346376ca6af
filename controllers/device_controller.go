package controllers

import (
	"net/http"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceDeviceController 定义设备控制器接口
type InterfaceDeviceController interface {
	GetDevices()
	GetDevice()
	GetDeviceStatus()
}

// DeviceController 处理设备相关的请求
type DeviceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeviceController 创建一个新的设备控制器
func NewDeviceController(ctx *gin.Context, container *container.ServiceContainer) *DeviceController {
	return &DeviceController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDeviceFunc 返回一个处理设备请求的Gin处理函数
func HandleDeviceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeviceController(ctx, container)

		switch method {
		case "getDevices":
			controller.GetDevices()
		case "getDevice":
			controller.GetDevice()
		case "getDeviceStatus":
			controller.GetDeviceStatus()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetDevices 获取所有终端列表
// @Summary      获取所有终端
// @Description  获取所有考勤终端，在线状态按活动窗口实时推导
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /devices [get]
func (c *DeviceController) GetDevices() {
	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	devices, err := deviceService.GetAllDevices()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取设备列表失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, devices)
}

// 2. GetDevice 根据序列号获取终端详情
// @Summary      获取单个终端
// @Description  根据序列号获取终端信息
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Param        sn  path  string  true  "设备序列号"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /devices/{sn} [get]
func (c *DeviceController) GetDevice() {
	sn := c.Ctx.Param("sn")
	if sn == "" {
		response.Fail(c.Ctx, code.ErrSerialRequired, nil)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	device, err := deviceService.GetDeviceBySN(sn)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDeviceNotFound, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, device)
}

// 3. GetDeviceStatus 查询终端在线状态
// @Summary      查询终端状态
// @Description  查询终端在线状态，优先走缓存快路径
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Param        sn  path  string  true  "设备序列号"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /devices/{sn}/status [get]
func (c *DeviceController) GetDeviceStatus() {
	sn := c.Ctx.Param("sn")
	if sn == "" {
		response.Fail(c.Ctx, code.ErrSerialRequired, nil)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	status, err := deviceService.GetDeviceStatus(sn)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDeviceNotFound, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, gin.H{"serial_number": sn, "status": status})
}
