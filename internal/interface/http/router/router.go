// Package router 组装Gin引擎：中间件链 + 全部路由
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/vibeshelf/docs" // swagger文档注册
	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/internal/interface/http/handler"
	"github.com/xiebiao/vibeshelf/internal/interface/http/middleware"
)

// Handlers 全部HTTP处理器，由Wire按字段注入
type Handlers struct {
	Book    *handler.BookHandler
	BookV2  *handler.BookV2Handler
	Genre   *handler.GenreHandler
	Review  *handler.ReviewHandler
	User    *handler.UserHandler
	Health  *handler.HealthHandler
	Metrics *handler.MetricsHandler
}

// New 创建Gin引擎并注册路由
// 中间件顺序：
// 1. Recovery：兜底panic
// 2. Tracing：创建请求Span，后面的日志才能带上trace_id
// 3. RequestLogger：request_id + 访问日志
// 4. Metrics：HTTP指标
// 5. CORS：预检请求在这里直接返回204
// 6. 限流（ratelimit.enabled=true时）
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.Enabled && limiter != nil {
		r.Use(limiter.Middleware())
	}

	// Swagger文档：http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus常用的抓取路径
	r.GET("/metrics", h.Metrics.Prometheus())

	api := r.Group("/api")
	{
		// 图书v1
		books := api.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/search", h.Book.SearchBooks)
			books.GET("/count", h.Book.CountBooks)
			books.GET("/:id", h.Book.GetBook)
		}

		// 图书v2（统一信封格式）
		v2 := api.Group("/v2/books")
		{
			v2.GET("", h.BookV2.ListBooks)
			v2.GET("/search", h.BookV2.SearchBooks)
			v2.GET("/popular", h.BookV2.PopularBooks)
			v2.GET("/recent", h.BookV2.RecentBooks)
			v2.GET("/genre/:genre", h.BookV2.BooksByGenre)
			v2.POST("/bulk", h.BookV2.BulkBooks)
			v2.GET("/suggestions", h.BookV2.Suggestions)
			v2.GET("/count", h.BookV2.CountBooks)
			v2.GET("/:id", h.BookV2.GetBook)
		}

		// 类型
		genres := api.Group("/genres")
		{
			genres.GET("", h.Genre.ListGenres)
			genres.GET("/:genre", h.Genre.GenreBooks)
		}

		// 书评：提交时未登录由Handler返回401（不走RequireAuth，保持错误格式一致）
		reviews := api.Group("/reviews")
		{
			reviews.GET("/:bookId", h.Review.ListReviews)
			reviews.POST("", auth.OptionalAuth(), h.Review.SubmitReview)
		}

		// 用户
		users := api.Group("/users")
		{
			users.POST("/signup", h.User.Signup)
			users.POST("/verify-otp", h.User.VerifyOTP)
			users.POST("/login", h.User.Login)
			users.POST("/login-simple", h.User.LoginSimple)
			users.POST("/forgot-password", h.User.ForgotPassword)
			users.POST("/reset-password", h.User.ResetPassword)
			if cfg.Auth.DevEndpoints {
				users.POST("/verify-test-user", h.User.VerifyTestUser)
			}

			authorized := users.Group("")
			authorized.Use(auth.RequireAuth())
			{
				authorized.POST("/logout", h.User.Logout)
				authorized.GET("/profile", h.User.GetProfile)
				authorized.PUT("/profile", h.User.UpdateProfile)
			}
		}

		// 运维
		api.GET("/health", h.Health.Health)
		api.GET("/metrics", h.Metrics.Metrics)
		api.GET("/metrics/cache", h.Metrics.CacheMetrics)
		api.GET("/metrics/prometheus", h.Metrics.Prometheus())
	}

	return r
}
