package payroll

import (
	"github.com/CodifyCanvas/Foodya-sub001/internal/middleware"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetEmployeePayrolls)
		payrolls.POST("/employee/:id", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.Settle)
		payrolls.PATCH("/records/:id/adjust", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.Adjust)
		if redisClient != nil {
			payrolls.POST(
				"/refresh",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.Refresh,
			)
		} else {
			payrolls.POST("/refresh", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Refresh)
		}
	}
}
