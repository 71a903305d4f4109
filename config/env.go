package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the bot needs from the environment. Credentials
// for the kick fallback tiers (user session, personal token) are optional;
// the bot token alone is a working, if less privileged, deployment.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBPath      string `envconfig:"DB_PATH" default:"channelblam.db"`
	RedisURL    string `envconfig:"REDIS_URL"`

	SlackBotToken      string `envconfig:"SLACK_BOT_TOKEN" required:"true"`
	SlackUserToken     string `envconfig:"SLACK_USER_TOKEN"`
	SlackPersonalToken string `envconfig:"SLACK_PERSONAL_TOKEN"`
	SlackXOXC          string `envconfig:"SLACK_XOXC"`
	SlackXOXD          string `envconfig:"SLACK_XOXD"`
	SlackXCookie       string `envconfig:"SLACK_X_COOKIE"`

	AdminID   string `envconfig:"ADMIN_ID" required:"true"`
	BotUserID string `envconfig:"BOT_USER_ID"`

	IDVEndpoint string `envconfig:"IDV_ENDPOINT" default:"https://identity.hackclub.com/api/external/check"`
}

// LoadEnv pulls a local .env file into the process environment. Hosted
// deployments inject real env vars, so the file is optional there.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		_ = godotenv.Load()
	}
}

func Load() (*Config, error) {
	LoadEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
