package manager

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reel-service/pkg/config"
)

// Resource is an external connection with an explicit lifecycle (db, redis, kafka...).
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin creates a named resource during assembly.
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Controller registers HTTP routes on the shared engine.
type Controller interface {
	RegisterRoutes(engine *gin.Engine)
}

// ControllerPlugin creates a named controller during assembly.
type ControllerPlugin interface {
	Name() string
	MustCreateController(deps *Dependencies) Controller
}

// Component is a long-running part of the service (consumer, worker pool...).
type Component interface {
	GetName() string
	Start() error
	Stop() error
}

// ComponentPlugin creates a named component during assembly.
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// Service participates in assembly after resources are open (optional hook).
type Service interface {
	GetName() string
	MustInit(deps *Dependencies)
}

// ServicePlugin creates a named service during assembly.
type ServicePlugin interface {
	Name() string
	MustCreateService() Service
}

// Dependencies 依赖注入容器
type Dependencies struct {
	DB                 *gorm.DB
	Config             *config.Config
	PipelineAppService interface{}
}

type registry struct {
	mu                sync.Mutex
	resourcePlugins   []ResourcePlugin
	controllerPlugins []ControllerPlugin
	componentPlugins  []ComponentPlugin
	servicePlugins    []ServicePlugin

	resources   []Resource
	controllers []Controller
	components  []Component
}

var defaultRegistry = &registry{}

// RegisterResourcePlugin 注册资源插件（在init阶段调用）
func RegisterResourcePlugin(p ResourcePlugin) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.resourcePlugins = append(defaultRegistry.resourcePlugins, p)
}

// RegisterControllerPlugin 注册控制器插件（在init阶段调用）
func RegisterControllerPlugin(p ControllerPlugin) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.controllerPlugins = append(defaultRegistry.controllerPlugins, p)
}

// RegisterComponentPlugin 注册组件插件（在init阶段调用）
func RegisterComponentPlugin(p ComponentPlugin) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.componentPlugins = append(defaultRegistry.componentPlugins, p)
}

// RegisterServicePlugin 注册服务插件（在init阶段调用）
func RegisterServicePlugin(p ServicePlugin) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.servicePlugins = append(defaultRegistry.servicePlugins, p)
}

// MustInitResources 按注册顺序打开所有资源，任一失败即panic
func MustInitResources() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for _, p := range defaultRegistry.resourcePlugins {
		r := p.MustCreateResource()
		if r == nil {
			panic(fmt.Sprintf("resource plugin %s returned nil resource", p.Name()))
		}
		r.MustOpen()
		defaultRegistry.resources = append(defaultRegistry.resources, r)
	}
}

// CloseResources 逆序关闭所有资源
func CloseResources() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for i := len(defaultRegistry.resources) - 1; i >= 0; i-- {
		defaultRegistry.resources[i].Close()
	}
	defaultRegistry.resources = nil
}

// MustInitServices 初始化所有服务插件
func MustInitServices(deps *Dependencies) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for _, p := range defaultRegistry.servicePlugins {
		s := p.MustCreateService()
		if s == nil {
			panic(fmt.Sprintf("service plugin %s returned nil service", p.Name()))
		}
		s.MustInit(deps)
	}
}

// MustInitComponents 创建并启动所有组件，任一失败即panic
func MustInitComponents(deps *Dependencies) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for _, p := range defaultRegistry.componentPlugins {
		c := p.MustCreateComponent(deps)
		if c == nil {
			panic(fmt.Sprintf("component plugin %s returned nil component", p.Name()))
		}
		if err := c.Start(); err != nil {
			panic(fmt.Sprintf("component %s failed to start: %v", c.GetName(), err))
		}
		defaultRegistry.components = append(defaultRegistry.components, c)
	}
}

// RegisterAllRoutes 将所有控制器的路由挂到引擎上
func RegisterAllRoutes(engine *gin.Engine, deps *Dependencies) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for _, p := range defaultRegistry.controllerPlugins {
		c := p.MustCreateController(deps)
		if c == nil {
			panic(fmt.Sprintf("controller plugin %s returned nil controller", p.Name()))
		}
		c.RegisterRoutes(engine)
		defaultRegistry.controllers = append(defaultRegistry.controllers, c)
	}
}

// Shutdown 逆序停止所有组件
func Shutdown() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	for i := len(defaultRegistry.components) - 1; i >= 0; i-- {
		_ = defaultRegistry.components[i].Stop()
	}
	defaultRegistry.components = nil
}
