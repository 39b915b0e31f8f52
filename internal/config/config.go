// Package config はアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// supportedAlgorithms はトークン署名に使用できるHMACアルゴリズム。
// ここに無いアルゴリズム名が指定された場合は起動時にエラーとする。
var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合、またはALGORITHMがサポート外の場合はエラーを返す。
// 署名鍵・アルゴリズムの欠落はリクエスト処理時ではなく、ここで起動を中断させる。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}

	cfg.Algorithm = os.Getenv("ALGORITHM")
	if cfg.Algorithm == "" {
		missing = append(missing, "ALGORITHM")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if !supportedAlgorithms[cfg.Algorithm] {
		return nil, fmt.Errorf("unsupported signing algorithm: %s (supported: HS256, HS384, HS512)", cfg.Algorithm)
	}

	// Optional fields with defaults
	expireMinutes := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	cfg.AccessTokenTTL = time.Duration(expireMinutes) * time.Minute
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
