package salarychange

import (
	"github.com/CodifyCanvas/Foodya-sub001/internal/middleware"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	changes := r.Group("/employees/:id/salary-changes")
	changes.Use(middleware.AuthMiddleware())
	{
		changes.POST("", middleware.RBACAuthorize(rbacService, "salary", "create"), handler.Append)
		changes.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.History)
	}
}
