package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	middlewareLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/yockii/ppt_tools/internal/api"
	"github.com/yockii/ppt_tools/internal/assembler"
	"github.com/yockii/ppt_tools/internal/generator"
	"github.com/yockii/ppt_tools/internal/llm"
	"github.com/yockii/ppt_tools/internal/middleware"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/config"
	"github.com/yockii/ppt_tools/pkg/logger"
)

type Server struct {
	app *fiber.App
	db  *gorm.DB
	rdb *redis.Client

	// 后台任务随服务关闭
	ctx    context.Context
	cancel context.CancelFunc

	generator       *generator.Generator
	presentationSrv service.PresentationService
	brandThemeSrv   service.BrandThemeService
}

// New db 为空时不注册保存相关的接口
func New(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{db: db, ctx: ctx, cancel: cancel}
}

// Build 创建 fiber 实例并注册全部路由
func (s *Server) Build() *fiber.App {
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		DisableStartupMessage: true,
		BodyLimit:             config.GetInt("server.body_limit"),
	})

	s.setupServices()

	// 配置中间件
	s.setupMiddleware()

	// 注册路由
	s.registerHandlers()
	s.setupRoutes()
	return s.app
}

func (s *Server) Start() error {
	if s.app == nil {
		s.Build()
	}

	addr := config.GetServerAddress()
	logger.Info("服务监听地址", logger.F("address", addr))

	// 优雅关闭
	go s.gracefulShutdown()

	if err := s.app.Listen(addr); err != nil {
		logger.Error("服务停止", logger.F("error", err))
		return err
	}
	return nil
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务关闭中...")
	s.Shutdown()
	logger.Info("服务已关闭")
}

// Shutdown 关闭 http 服务和外部连接
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			logger.Error("服务关闭失败", logger.F("error", err))
		}
	}
	s.cancel()
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			logger.Warn("关闭redis连接失败", logger.F("error", err))
		}
	}
}

// setupServices 配置服务层
func (s *Server) setupServices() {
	chatModel := llm.NewAnthropicChatModel(llm.ConfigFromEnv())
	if !chatModel.Configured() {
		logger.Warn("未配置 ANTHROPIC_API_KEY，生成接口将返回错误")
	}
	s.generator = generator.New(chatModel)

	if s.db != nil {
		s.presentationSrv = service.NewPresentationService(s.db)
		s.brandThemeSrv = service.NewBrandThemeService(s.db)
	}
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	// 异常恢复
	s.app.Use(recover.New())

	s.app.Use(middleware.RequestID())

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID",
	}))

	// 访问日志
	s.app.Use(middlewareLogger.New(middlewareLogger.Config{
		Format:     "[${ip}]-${time} ${locals:requestid} ${status} ${latency} ${method} ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

// rateLimiter 启用 redis 时多实例共享计数
func (s *Server) rateLimiter() fiber.Handler {
	if !config.GetBool("rate_limit.enabled") {
		return nil
	}
	maxRequests := config.GetInt("rate_limit.max_requests")
	window := config.GetRateLimitWindow()

	if config.GetBool("redis.enabled") {
		s.rdb = redis.NewClient(&redis.Options{
			Addr:     config.GetString("redis.addr"),
			Password: config.GetString("redis.password"),
			DB:       config.GetInt("redis.db"),
		})
		logger.Info("使用redis限流", logger.F("addr", config.GetString("redis.addr")))
		return middleware.RateLimit(middleware.NewRedisLimiter(s.rdb, "ppt:ratelimit:", maxRequests, window))
	}

	limiter := middleware.NewRateLimiter(maxRequests, window)
	limiter.StartCleanup(s.ctx, window)
	return middleware.RateLimit(limiter)
}

func (s *Server) registerHandlers() {
	api.Handlers = nil
	options := assembler.DefaultOptions()

	api.RegisterGenerateHandler(s.generator)
	api.RegisterExportHandler(options)
	api.RegisterThemeHandler()
	api.RegisterOutlineHandler()
	api.RegisterImportHandler()

	if s.db != nil {
		api.RegisterPresentationHandler(s.presentationSrv, s.brandThemeSrv, options)
		api.RegisterBrandThemeHandler(s.brandThemeSrv)
	}
}

// setupRoutes 所有接口挂在 server.prefix 下
func (s *Server) setupRoutes() {
	secret := config.GetJWTSecret()
	mw := api.Middlewares{
		Auth:         middleware.NewAuthMiddleware(secret, config.GetString("auth.issuer")),
		OptionalAuth: middleware.NewOptionalAuthMiddleware(secret, config.GetString("auth.issuer")),
		RateLimit:    s.rateLimiter(),
	}

	apiGroup := s.app.Group(config.GetString("server.prefix"))
	for _, handler := range api.Handlers {
		handler.RegisterRoutes(apiGroup, mw)
	}

	// 健康检查
	s.app.Get("/health", api.Health)
}
