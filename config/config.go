package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	OSS           OSSConfig           `mapstructure:"oss"`
	OAuth         OAuthConfig         `mapstructure:"oauth"`
	Email         EmailConfig         `mapstructure:"email"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Deepgram      DeepgramConfig      `mapstructure:"deepgram"`
	ElevenLabs    ElevenLabsConfig    `mapstructure:"elevenlabs"`
	VoiceClone    VoiceCloneConfig    `mapstructure:"voice_clone"`
	Pronunciation PronunciationConfig `mapstructure:"pronunciation"`
	Upload        UploadConfig        `mapstructure:"upload"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type OAuthConfig struct {
	Github GithubOAuthConfig `mapstructure:"github"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	NotificationQueue string `mapstructure:"notification_queue"`
	MaxWorkers        int    `mapstructure:"max_workers"`
}

// NotificationConfig 收件箱保留策略
type NotificationConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// DeepgramConfig 语音识别服务配置，APIKey 为空时走离线分析
type DeepgramConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Language       string `mapstructure:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ElevenLabsConfig 声音克隆服务配置
type ElevenLabsConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	ModelID         string  `mapstructure:"model_id"`
	Stability       float64 `mapstructure:"stability"`
	SimilarityBoost float64 `mapstructure:"similarity_boost"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
}

// VoiceCloneConfig 声音克隆每日配额
type VoiceCloneConfig struct {
	DailyLimit int `mapstructure:"daily_limit"`
}

// PronunciationConfig 发音评分阈值与反馈文案
type PronunciationConfig struct {
	// 整句练习（词重合率）的通过阈值，0~1
	SentenceThreshold float64 `mapstructure:"sentence_threshold"`
	// 单词评分（编辑距离）需要纠正的阈值，0~100
	CorrectionThreshold int `mapstructure:"correction_threshold"`
	// 反馈文案按分数档位选择，MinScore 从高到低
	Feedback []FeedbackLevel `mapstructure:"feedback"`
}

// FeedbackLevel 分数档位文案，MinScore 为该档最低分（0~100）
type FeedbackLevel struct {
	MinScore int    `mapstructure:"min_score"`
	Message  string `mapstructure:"message"`
}

type UploadConfig struct {
	MaxAudioSize int64    `mapstructure:"max_audio_size"` // 录音最大字节数
	MaxVideoSize int64    `mapstructure:"max_video_size"` // Reel 视频最大字节数
	AudioTypes   []string `mapstructure:"audio_types"`    // 允许的录音 MIME 类型
}

// Load 加载配置文件，环境变量可覆盖（前缀 ECHOMIND_）
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))

	v.SetEnvPrefix("ECHOMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 允许无配置文件、纯环境变量启动
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Pronunciation.Feedback) == 0 {
		cfg.Pronunciation.Feedback = DefaultFeedback()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.expire_hours", 168)

	v.SetDefault("queue.notification_queue", "echomind:notifications")
	v.SetDefault("queue.max_workers", 4)

	v.SetDefault("notification.retention_days", 90)

	v.SetDefault("deepgram.base_url", "https://api.deepgram.com")
	v.SetDefault("deepgram.model", "nova-2")
	v.SetDefault("deepgram.language", "en")
	v.SetDefault("deepgram.timeout_seconds", 15)

	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("elevenlabs.model_id", "eleven_monolingual_v1")
	v.SetDefault("elevenlabs.stability", 0.75)
	v.SetDefault("elevenlabs.similarity_boost", 0.75)
	v.SetDefault("elevenlabs.timeout_seconds", 15)

	v.SetDefault("voice_clone.daily_limit", 5)

	v.SetDefault("pronunciation.sentence_threshold", 0.8)
	v.SetDefault("pronunciation.correction_threshold", 85)

	v.SetDefault("upload.max_audio_size", 10*1024*1024)
	v.SetDefault("upload.max_video_size", 100*1024*1024)
	v.SetDefault("upload.audio_types", []string{"audio/mpeg", "audio/webm", "audio/wav", "audio/mp4"})
}

// DefaultFeedback 默认反馈文案（面向练习英语的用户，保持英文）
func DefaultFeedback() []FeedbackLevel {
	return []FeedbackLevel{
		{MinScore: 95, Message: "Perfect pronunciation! Excellent job!"},
		{MinScore: 85, Message: "Great pronunciation! Just a few minor issues."},
		{MinScore: 70, Message: "Good effort! Focus on the stressed syllables."},
		{MinScore: 50, Message: "Keep practicing! Listen to the correct pronunciation and try again."},
		{MinScore: 0, Message: "Let's try again. Listen carefully to the word and speak slowly."},
	}
}
