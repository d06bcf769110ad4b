package v1

import "github.com/gin-gonic/gin"

// ServerInterface is implemented by the status API handlers.
type ServerInterface interface {
	// (GET /sessions)
	ListSessions(c *gin.Context)
	// (GET /sessions/:index)
	GetSession(c *gin.Context)
	// (GET /extension)
	GetExtension(c *gin.Context)
	// (GET /extension/updates)
	ListUpdateChecks(c *gin.Context)
}

// RegisterHandlers mounts the API routes on router.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	router.GET("/sessions", si.ListSessions)
	router.GET("/sessions/:index", si.GetSession)
	router.GET("/extension", si.GetExtension)
	router.GET("/extension/updates", si.ListUpdateChecks)
}
