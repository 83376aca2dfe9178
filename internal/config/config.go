package config

import (
	"os"
	"strings"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresHost     string
	PostgresPassword string
	PostgresDB       string
	PostgresPort     string
	ConfigDir        string
	WorkspaceDir     string
	SlackWebhookURL  string
	ManagerTokens    []string
	BuildCommand     []string
	InstallCommands  [][]string
	DeployQueueSize  int
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8000"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		ConfigDir:        os.Getenv("CONFIG_DIR"),
		WorkspaceDir:     getEnv("WORKSPACE_DIR", "."),
		SlackWebhookURL:  os.Getenv("SLACK_WEBHOOK_URL"),
		ManagerTokens:    splitCSV(os.Getenv("MANAGER_TOKENS")),
		BuildCommand:     strings.Fields(os.Getenv("BUILD_COMMAND")),
		InstallCommands:  splitCommands(os.Getenv("INSTALL_COMMANDS")),
		DeployQueueSize:  16,
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// splitCommands parses "npm install; bower install" into argument lists.
func splitCommands(s string) [][]string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var commands [][]string
	for _, part := range strings.Split(s, ";") {
		if args := strings.Fields(part); len(args) > 0 {
			commands = append(commands, args)
		}
	}
	return commands
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
