package controllers

import (
	"net/http"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceUserController 定义设备用户控制器接口
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	UpdateUser()
}

// UserController 处理设备用户相关的请求
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的设备用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// UpdateUserRequest 表示后台更新用户请求。指针字段为nil表示本次不修改，
// 与设备同步共用同一套保留式合并策略
type UpdateUserRequest struct {
	Name         *string `json:"name" example:"Ali"`
	Privilege    *int    `json:"privilege" example:"0"`
	CardNumber   *string `json:"card_number" example:"10001"`
	Password     *string `json:"password" example:""`
	Email        *string `json:"email" example:"ali@example.com"`
	RemoteAccess *bool   `json:"remote_access" example:"true"`
}

// HandleUserFunc 返回一个处理设备用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "updateUser":
			controller.UpdateUser()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetUsers 获取所有设备用户
// @Summary      获取设备用户列表
// @Description  获取所有终端上的登记用户，同一人按终端分别成行
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /users [get]
func (c *UserController) GetUsers() {
	syncService := c.Container.GetService("sync").(services.InterfaceSyncService)

	users, err := syncService.GetAllUsers()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取用户列表失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, users)
}

// 2. GetUser 按复合身份获取单个设备用户
// @Summary      获取单个设备用户
// @Description  按 (设备序列号, 用户ID) 获取设备用户
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        device_sn  path  string  true  "设备序列号"
// @Param        user_id    path  string  true  "用户ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{device_sn}/{user_id} [get]
func (c *UserController) GetUser() {
	deviceSN := c.Ctx.Param("device_sn")
	userID := c.Ctx.Param("user_id")

	syncService := c.Container.GetService("sync").(services.InterfaceSyncService)
	user, err := syncService.GetUser(userID, deviceSN)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUserNotFound, err.Error(), nil)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. UpdateUser 后台更新用户字段（邮箱、远程访问标记等）。
// 走保留式合并，未提供的字段不受影响
// @Summary      更新设备用户
// @Description  更新后台管理字段，设备重新同步不会抹掉这些值
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        device_sn  path  string             true  "设备序列号"
// @Param        user_id    path  string             true  "用户ID"
// @Param        request    body  UpdateUserRequest  true  "更新字段"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /users/{device_sn}/{user_id} [put]
func (c *UserController) UpdateUser() {
	deviceSN := c.Ctx.Param("device_sn")
	userID := c.Ctx.Param("user_id")

	var req UpdateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind, nil)
		return
	}

	patch := services.UserPatch{
		UserID:       userID,
		DeviceSN:     deviceSN,
		Privilege:    req.Privilege,
		RemoteAccess: req.RemoteAccess,
	}
	if req.Name != nil {
		patch.Name = *req.Name
	}
	if req.CardNumber != nil {
		patch.CardNumber = *req.CardNumber
	}
	if req.Password != nil {
		patch.Password = *req.Password
	}
	if req.Email != nil {
		patch.Email = *req.Email
	}

	syncService := c.Container.GetService("sync").(services.InterfaceSyncService)
	user, err := syncService.MergeUser(patch)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新用户失败: "+err.Error(), nil)
		return
	}
	response.Success(c.Ctx, user)
}
