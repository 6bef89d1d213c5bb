package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Gemini API
	GeminiAPIKeys     []string
	GeminiImageModel  string
	GeminiVideoModel  string
	GeminiTextModel   string
	GeminiImagenModel string

	// Server
	Port string

	// Credit
	ImagePerPrice int
	// 분당 생성 요청 허용 개수 (rolling 60s window)
	RequestsPerMinute int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	// ImagePerPrice 파싱
	imagePerPrice := 5 // 기본값 (5 크레딧/장)
	if priceStr := os.Getenv("IMAGE_PER_PRICE"); priceStr != "" {
		if parsed, err := strconv.Atoi(priceStr); err == nil {
			imagePerPrice = parsed
		}
	}

	requestsPerMinute := 10
	if rpmStr := os.Getenv("REQUESTS_PER_MINUTE"); rpmStr != "" {
		if parsed, err := strconv.Atoi(rpmStr); err == nil && parsed > 0 {
			requestsPerMinute = parsed
		}
	}

	// GEMINI_API_KEYS는 콤마로 구분 (retry helper가 키 순회)
	var apiKeys []string
	for _, key := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			apiKeys = append(apiKeys, trimmed)
		}
	}
	if len(apiKeys) == 0 {
		if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
			apiKeys = []string{key}
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Supabase
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "studio-assets"),

		// Gemini API
		GeminiAPIKeys:     apiKeys,
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiVideoModel:  getEnv("GEMINI_VIDEO_MODEL", "veo-2.0-generate-001"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImagenModel: getEnv("GEMINI_IMAGEN_MODEL", "imagen-4.0-generate-001"),

		// Server
		Port: getEnv("PORT", "8080"),

		// Credit
		ImagePerPrice:     imagePerPrice,
		RequestsPerMinute: requestsPerMinute,
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Supabase: %s (bucket: %s)", globalConfig.SupabaseURL, globalConfig.SupabaseBucket)
	log.Printf("   Gemini: image=%s video=%s (%d key(s))",
		globalConfig.GeminiImageModel, globalConfig.GeminiVideoModel, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Credit: %d per image", globalConfig.ImagePerPrice)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
