package controllers

import (
	"errors"
	"net/http"

	"adms-gateway-service/internal/error/code"
	"adms-gateway-service/internal/error/response"
	"adms-gateway-service/models"
	"adms-gateway-service/services"
	"adms-gateway-service/services/container"
	"adms-gateway-service/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginData 表示登录成功后返回的数据
type LoginData struct {
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	AdminID  uint   `json:"admin_id" example:"1"`
	Username string `json:"username" example:"admin"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// Login 处理管理员登录
// @Summary      管理员登录
// @Description  校验用户名密码，返回访问后台接口的JWT令牌
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  LoginRequest  true  "登录参数"
// @Success      200  {object}  response.Response{data=LoginData}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrBind, nil)
		return
	}

	db := c.Container.GetService("db").(*gorm.DB)
	var admin models.Admin
	if err := db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c.Ctx, code.ErrAdminNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	if !utils.CheckPasswordHash(req.Password, admin.Password) {
		response.Fail(c.Ctx, code.ErrAdminPasswordIncorrect, nil)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(admin.ID, "admin")
	if err != nil {
		response.ServerError(c.Ctx, "生成令牌失败: "+err.Error())
		return
	}

	response.Success(c.Ctx, LoginData{
		Token:    token,
		AdminID:  admin.ID,
		Username: admin.Username,
	})
}
