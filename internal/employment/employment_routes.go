package employment

import (
	"github.com/CodifyCanvas/Foodya-sub001/internal/middleware"
	"github.com/CodifyCanvas/Foodya-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	records := r.Group("/employees/:id/employment-records")
	records.Use(middleware.AuthMiddleware())
	{
		records.POST("", middleware.RBACAuthorize(rbacService, "employment", "create"), handler.Append)
		records.GET("", middleware.RBACAuthorize(rbacService, "employment", "read"), handler.History)
	}
}
