package server

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleHome)

	api := s.engine.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/apps-storage", s.handleAppsStorage)
		api.GET("/logs", s.handleLogs)
		api.GET("/ws", s.handleStream)

		actions := api.Group("", RateLimitMiddleware(s.limiter, s.logger), s.auth.Middleware(s.logger))
		actions.POST("/restart", s.handleRestart)
		actions.POST("/clear-cache", s.handleClearCache)
	}
}
