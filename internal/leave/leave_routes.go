package leave

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the leave endpoints. createMiddleware runs only on
// POST /leaves (idempotency).
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	createMiddleware ...gin.HandlerFunc,
) {
	leaves := r.Group("/leaves")
	{
		leaves.POST("", append(createMiddleware, handler.Create)...)
		leaves.GET("", handler.List)
		leaves.GET("/employee/:employeeID", handler.GetByEmployee)
		leaves.GET("/:id", handler.GetByID)
		leaves.PUT("/:id", handler.UpdateStatus)
		leaves.DELETE("/:id", handler.Cancel)
	}
}
