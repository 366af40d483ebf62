package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "reel-service/ddd/application/app"
	"reel-service/internal/resource"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
	"reel-service/pkg/manager"
	"reel-service/pkg/middleware"
	"reel-service/pkg/registry"

	_ "reel-service/ddd/adapter/component"
	_ "reel-service/ddd/adapter/http"
	_ "reel-service/ddd/infrastructure/worker"
)

func Run() {
	fmt.Println("[STARTUP] Starting reel service...")

	// 加载配置
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)

	logger.Infof("Reel service starting version=%s", "1.0.0")

	// ffmpeg/ffprobe 是流水线硬依赖，启动阶段直接失败
	for _, binary := range []string{cfg.Transform.FFmpeg.BinaryPath, cfg.Transform.FFmpeg.ProbeBinaryPath} {
		if strings.TrimSpace(binary) == "" {
			continue
		}
		if _, err := exec.LookPath(binary); err != nil {
			logger.Fatal(fmt.Sprintf("required binary not found binary=%s error=%s", binary, err.Error()))
		}
	}

	// 资源管理器初始化
	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	// 初始化应用服务
	pipelineApp := appsvc.DefaultPipelineApp()

	// 创建依赖注入容器
	deps := &manager.Dependencies{
		DB:                 resource.DefaultMysqlResource().MainDB(),
		Config:             cfg,
		PipelineAppService: pipelineApp,
	}

	logger.Infof("Initializing services...")
	manager.MustInitServices(deps)

	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// 创建Gin引擎
	router := gin.Default()
	router.Use(middleware.RequestContextMiddleware())
	router.Use(middleware.AuthMiddleware(cfg.JWT))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "reel-service",
			"timestamp": time.Now().Unix(),
		})
	})

	logger.Infof("Registering routes...")
	manager.RegisterAllRoutes(router, deps)

	// 启动HTTP服务器
	addr := cfg.Server.GetServerAddr()
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started addr=%s service=%s", addr, "reel-service")

	// 注册到服务发现
	var serviceRegistry *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled && len(cfg.ServiceRegistry.Endpoints) > 0 {
		serviceRegistry, err = registry.NewServiceRegistry(
			registry.RegistryConfig{
				Endpoints:   cfg.ServiceRegistry.Endpoints,
				DialTimeout: 5 * time.Second,
			},
			registry.ServiceConfig{
				ServiceName:     cfg.ServiceRegistry.ServiceName,
				ServiceID:       cfg.ServiceRegistry.ServiceID,
				TTL:             cfg.ServiceRegistry.TTL,
				RefreshInterval: cfg.ServiceRegistry.RefreshInterval,
			},
			registerAddr(cfg),
		)
		if err != nil {
			logger.Warnf("service registry unavailable error=%v", err)
		} else if err := serviceRegistry.Register(); err != nil {
			logger.Warnf("service registration failed error=%v", err)
		} else {
			logger.Infof("service registered name=%s id=%s", cfg.ServiceRegistry.ServiceName, cfg.ServiceRegistry.ServiceID)
		}
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("service deregistration failed error=%v", err)
		}
	}

	// 关闭所有组件
	manager.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")
	if logService != nil {
		logService.Close()
	}
	fmt.Println("[SHUTDOWN] Reel service exited safely")
}

// registerAddr 对外注册的服务地址
func registerAddr(cfg *config.Config) string {
	host := cfg.ServiceRegistry.RegisterHost
	if host == "" {
		host = cfg.Server.Host
	}
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, cfg.Server.Port)
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
