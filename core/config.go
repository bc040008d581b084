package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	// APIConfig describes how to reach the REST backend that owns the card collection.
	APIConfig struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}

	// ServerConfig configures the development backend.
	ServerConfig struct {
		Address         string
		Host            string
		RequireAuth     bool
		JWTExpiration   time.Duration
		ShutdownTimeout time.Duration
	}

	CardsConfig struct {
		// ParkRank is the lowest rank used to park a card while its siblings are reshuffled.
		ParkRank int
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string

		API    APIConfig
		Server ServerConfig
		Cards  CardsConfig
	}
)

func newViper(env string) *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "ClubSite")
	v.SetDefault("secretKey", "y3k#b9-!m(2o@t+q8zr1$c^5uv7x&w0p")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:8000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 0*time.Second)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.requireAuth", false)
	v.SetDefault("server.jwtExpiration", 24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("cards.parkRank", 9999)

	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	v.SetEnvPrefix(env)
	// API_BASEURL -> api.baseURL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfig loads the configuration of the current environment (ENV: DEV (default), TEST, PROD).
// Values come from defaults, then `config/.env.<env>` if present, then the environment.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "config"
	}
	dotEnvPath := filepath.Join(dir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v := newViper(env)
	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.baseURL"), "/"),
			Token:   v.GetString("api.token"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			RequireAuth:     v.GetBool("server.requireAuth"),
			JWTExpiration:   v.GetDuration("server.jwtExpiration"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Cards: CardsConfig{
			ParkRank: v.GetInt("cards.parkRank"),
		},
	}
}
