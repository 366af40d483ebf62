package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Pipeline        PipelineConfig        `mapstructure:"pipeline"`
	Transform       TransformConfig       `mapstructure:"transform"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	BootstrapServers     []string          `mapstructure:"bootstrap_servers"`
	ClientID             string            `mapstructure:"client_id"`
	GroupID              string            `mapstructure:"group_id"`
	Enabled              bool              `mapstructure:"enabled"`
	Topics               KafkaTopicsConfig `mapstructure:"topics"`
	CommitOnDecodeError  bool              `mapstructure:"commit_on_decode_error"`
	CommitOnProcessError bool              `mapstructure:"commit_on_process_error"`
}

// KafkaTopicsConfig Kafka主题配置
type KafkaTopicsConfig struct {
	VideoUploaded string `mapstructure:"video_uploaded"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	ExpireTime time.Duration `mapstructure:"expire_time"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// PipelineConfig 流水线编排配置
type PipelineConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`      // 瞬态错误的单阶段最大重试次数
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`    // 首次重试退避，之后指数增长
	ReelCount       int           `mapstructure:"reel_count"`       // 分析阶段选取的重要片段上限（top-N）
	ReelDuration    float64       `mapstructure:"reel_duration"`    // 单条Reel最大时长（秒）
	ReelPadding     float64       `mapstructure:"reel_padding"`     // 片段前后扩展时长（秒）
	ReelParallelism int           `mapstructure:"reel_parallelism"` // 单视频内Reel裁剪并发上限
	ResumeOnStart   bool          `mapstructure:"resume_on_start"`  // 启动时恢复未完成视频
}

// TransformConfig 媒体转换能力配置
type TransformConfig struct {
	FFmpeg      FFmpegConfig      `mapstructure:"ffmpeg"`
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	Scorer      ScorerConfig      `mapstructure:"scorer"`
}

// FFmpegConfig FFmpeg配置
type FFmpegConfig struct {
	BinaryPath      string        `mapstructure:"binary_path"`
	ProbeBinaryPath string        `mapstructure:"probe_binary_path"`
	TempDir         string        `mapstructure:"temp_dir"`
	Timeout         time.Duration `mapstructure:"timeout"`
	VideoCodec      string        `mapstructure:"video_codec"`
	VideoPreset     string        `mapstructure:"video_preset"`
	CRF             int           `mapstructure:"crf"`
}

// TranscriberConfig 语音转写服务配置
type TranscriberConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// ServiceName 静态endpoint缺省时，从服务注册中心按该名称发现转写服务
	ServiceName string        `mapstructure:"service_name"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ScorerConfig 重要性打分服务配置（OpenAI兼容接口）
type ScorerConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// WorkerConfig 流水线Worker配置
type WorkerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	WorkerID            string        `mapstructure:"worker_id"`
	MaxConcurrentVideos int           `mapstructure:"max_concurrent_videos"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// SetGlobalConfig 设置全局配置（必须在资源管理器初始化之前）
func SetGlobalConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig 获取全局配置
func GetGlobalConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 保持向后兼容：默认开启服务注册，可配置关闭
	viper.SetDefault("service_registry.enabled", true)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "reel-service")
	viper.SetDefault("kafka.group_id", "reel-service-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.video_uploaded", "video.uploaded")
	viper.SetDefault("kafka.commit_on_decode_error", true)
	viper.SetDefault("kafka.commit_on_process_error", false)
	viper.SetDefault("pipeline.resume_on_start", true)

	// 设置环境变量前缀
	viper.SetEnvPrefix("REEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// 解析配置
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	// 流水线默认值
	if c.Pipeline.MaxRetries <= 0 {
		c.Pipeline.MaxRetries = 3
	}
	if c.Pipeline.RetryBackoff <= 0 {
		c.Pipeline.RetryBackoff = 2 * time.Second
	}
	if c.Pipeline.ReelCount <= 0 {
		c.Pipeline.ReelCount = 3
	}
	if c.Pipeline.ReelDuration <= 0 {
		c.Pipeline.ReelDuration = 30
	}
	if c.Pipeline.ReelPadding <= 0 {
		c.Pipeline.ReelPadding = 2
	}
	if c.Pipeline.ReelParallelism <= 0 {
		c.Pipeline.ReelParallelism = 3
	}

	// Worker相关默认值
	if c.Worker.MaxConcurrentVideos <= 0 {
		c.Worker.MaxConcurrentVideos = 4
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = c.Worker.MaxConcurrentVideos * 25
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}

	// FFmpeg默认值
	if c.Transform.FFmpeg.TempDir == "" {
		c.Transform.FFmpeg.TempDir = "/tmp/reel-service"
	}
	if c.Transform.FFmpeg.BinaryPath == "" {
		c.Transform.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Transform.FFmpeg.ProbeBinaryPath == "" {
		c.Transform.FFmpeg.ProbeBinaryPath = "ffprobe"
	}
	if c.Transform.FFmpeg.VideoCodec == "" {
		c.Transform.FFmpeg.VideoCodec = "libx264"
	}
	if c.Transform.FFmpeg.VideoPreset == "" {
		c.Transform.FFmpeg.VideoPreset = "medium"
	}
	if c.Transform.FFmpeg.CRF <= 0 {
		c.Transform.FFmpeg.CRF = 23
	}
	if c.Transform.FFmpeg.Timeout == 0 {
		c.Transform.FFmpeg.Timeout = time.Hour
	}

	// 外部AI服务默认值
	if c.Transform.Transcriber.Timeout <= 0 {
		c.Transform.Transcriber.Timeout = 10 * time.Minute
	}
	if c.Transform.Transcriber.Model == "" {
		c.Transform.Transcriber.Model = "base"
	}
	if c.Transform.Scorer.Timeout <= 0 {
		c.Transform.Scorer.Timeout = 2 * time.Minute
	}
	if c.Transform.Scorer.Model == "" {
		c.Transform.Scorer.Model = "gpt-3.5-turbo"
	}
	if c.Transform.Scorer.MaxTokens <= 0 {
		c.Transform.Scorer.MaxTokens = 256
	}
	if c.Transform.Scorer.Temperature <= 0 {
		c.Transform.Scorer.Temperature = 0.3
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "reel-service"
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "reel-service"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "reel-service-group"
	}
	if c.Kafka.Topics.VideoUploaded == "" {
		c.Kafka.Topics.VideoUploaded = "video.uploaded"
	}
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetServerAddr 获取HTTP服务监听地址
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
