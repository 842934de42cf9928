//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/vibeshelf/internal/application/book"
	appreview "github.com/xiebiao/vibeshelf/internal/application/review"
	appuser "github.com/xiebiao/vibeshelf/internal/application/user"
	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/internal/domain/review"
	"github.com/xiebiao/vibeshelf/internal/domain/user"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/mail"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/vibeshelf/internal/interface/http/handler"
	"github.com/xiebiao/vibeshelf/internal/interface/http/middleware"
	"github.com/xiebiao/vibeshelf/internal/interface/http/router"
	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// infrastructureSet 基础设施层依赖：数据库、Redis、缓存、邮件
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideCacheStore,
	mail.NewSender,
	mail.NewMailer,
	wire.Bind(new(user.Mailer), new(*mail.Mailer)),
	wire.Bind(new(book.Cache), new(*cache.Store)),
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewQueryTimeout,
	mysql.NewBookRepository,
	mysql.NewUserRepository,
	mysql.NewReviewRepository,
	mysql.NewAuthorResolver,
	mysql.NewViewRecorder,
	mysql.NewTxManager,
	wire.Bind(new(user.Transactor), new(*mysql.TxManager)),
	provideSessionStore,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	provideUserOptions,
	provideGenreNormalizer,
	user.NewService,
	book.NewService,
	review.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewBrowseBooksUseCase,
	appbook.NewFeaturedBooksUseCase,
	appbook.NewBulkBooksUseCase,
	appbook.NewCatalogInfoUseCase,
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewPasswordResetUseCase,
	appuser.NewProfileUseCase,
	appreview.NewListReviewsUseCase,
	appreview.NewSubmitReviewUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideRateLimiter,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewBookV2Handler,
	handler.NewGenreHandler,
	handler.NewReviewHandler,
	handler.NewUserHandler,
	handler.NewHealthHandler,
	handler.NewMetricsHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序释放资源（限流器、邮件连接、缓存、Redis、数据库）
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
