package routes

import (
	"adms-gateway-service/config"
	"adms-gateway-service/controllers"
	_ "adms-gateway-service/docs"
	"adms-gateway-service/middleware"
	"adms-gateway-service/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerIclockRoutes(r, serviceContainer)
	registerAPIRoutes(r, serviceContainer)
	return r
}

// registerIclockRoutes 注册终端协议路由。协议为纯文本，
// 不走JSON响应格式，也不做任何认证（固件不支持）
func registerIclockRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	iclock := r.Group("/iclock")

	// 数据交换端点：握手 / 考勤上传 / 操作日志
	iclock.GET("/cdata", controllers.HandleIclockFunc(container, "cdata"))
	iclock.POST("/cdata", controllers.HandleIclockFunc(container, "cdata"))
	// 命令轮询端点：下发PENDING命令
	iclock.GET("/getrequest", controllers.HandleIclockFunc(container, "getrequest"))
	// 命令回执端点：推进命令状态
	iclock.GET("/devicecmd", controllers.HandleIclockFunc(container, "devicecmd"))
	iclock.POST("/devicecmd", controllers.HandleIclockFunc(container, "devicecmd"))
}

// registerAPIRoutes 注册JSON管理接口路由
func registerAPIRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	api := r.Group("/api")
	// 设置正确的Content-Type，确保UTF-8编码
	api.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))

	// 移动端绑定路由（App自带设备标识，不走后台JWT）
	api.POST("/app/bindings/check", controllers.HandleBindingFunc(container, "checkStatus"))
	api.POST("/app/bindings", controllers.HandleBindingFunc(container, "bind"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateSystemAdmin())

	// 设备路由
	auth.Group("/devices").GET("", controllers.HandleDeviceFunc(container, "getDevices"))
	auth.Group("/devices").GET("/:sn", controllers.HandleDeviceFunc(container, "getDevice"))
	auth.Group("/devices").GET("/:sn/status", controllers.HandleDeviceFunc(container, "getDeviceStatus"))

	// 考勤记录路由
	auth.Group("/attendances").GET("", controllers.HandleAttendanceFunc(container, "getAttendances"))
	auth.Group("/attendances").DELETE("/future", controllers.HandleAttendanceFunc(container, "purgeFuture"))

	// 设备用户路由
	auth.Group("/users").GET("", controllers.HandleUserFunc(container, "getUsers"))
	auth.Group("/users").GET("/:device_sn/:user_id", controllers.HandleUserFunc(container, "getUser"))
	auth.Group("/users").PUT("/:device_sn/:user_id", controllers.HandleUserFunc(container, "updateUser"))

	// 命令队列路由
	auth.Group("/commands").POST("/:sn", controllers.HandleCommandFunc(container, "queueProvisioning"))
	auth.Group("/commands").GET("", controllers.HandleCommandFunc(container, "getCommands"))

	// 绑定记录路由（后台查询）
	auth.Group("/bindings").GET("", controllers.HandleBindingFunc(container, "getBindings"))
}
