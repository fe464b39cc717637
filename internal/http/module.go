package http

import "github.com/gin-gonic/gin"

// RouterContext exposes the route groups modules can mount on.
type RouterContext struct {
	// Public routes require no authentication.
	Public *gin.RouterGroup
	// Protected routes sit behind JWT auth.
	Protected *gin.RouterGroup
}

// Module is a self-contained domain module that registers its own routes.
type Module interface {
	// Name returns the module identifier, used for logging.
	Name() string
	// RegisterRoutes mounts the module's routes on the router context.
	RegisterRoutes(ctx *RouterContext)
}
