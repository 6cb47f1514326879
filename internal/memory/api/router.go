package api

import "github.com/gin-gonic/gin"

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()

	// 使用 v1 版本对 API 进行分组
	apiV1 := r.Group("/api/v1")
	{
		memory := apiV1.Group("/memory")
		{
			memory.GET("/facts/:key", h.GetFact)
			memory.GET("/search", h.Search)
			memory.GET("/context", h.Context)
			memory.GET("/visualization", h.Visualization)
			memory.GET("/export", h.Export)
			memory.POST("/import", h.Import)
			memory.GET("/healthz", h.Healthz)
		}
	}

	return r
}
