package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"lists-ms/domain/lists"
)

// Store drivers
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion        string `yaml:"aws_region"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint"`
	EventBusName     string `yaml:"event_bus_name"`

	// Storage
	StoreDriver    string `yaml:"store_driver"`
	ListsTable     string `yaml:"lists_table"`
	TasksTable     string `yaml:"tasks_table"`
	ListsUserIndex string `yaml:"lists_user_index"`
	TasksListIndex string `yaml:"tasks_list_index"`

	// Read-all behaviour
	PageSize       int    `yaml:"page_size"`
	TaskAttachment string `yaml:"task_attachment"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret   string   `yaml:"jwt_secret"`
	JWTIssuer   string   `yaml:"jwt_issuer"`
	JWTAudience []string `yaml:"jwt_audience"`
	// TrustGatewayHeaders accepts X-User-ID from the Lambda entrypoint,
	// which rewrites those headers from the authorizer claims.
	TrustGatewayHeaders bool `yaml:"trust_gateway_headers"`

	// Feature flags
	EnableMetrics bool     `yaml:"enable_metrics"`
	EnableTracing bool     `yaml:"enable_tracing"`
	EnableCORS    bool     `yaml:"enable_cors"`
	CORSOrigins   []string `yaml:"cors_origins"`
	DebugErrors   bool     `yaml:"debug_errors"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress:  ":8080",
		Environment:    "development",
		AWSRegion:      "us-east-1",
		StoreDriver:    StoreDynamoDB,
		ListsTable:     "Lists",
		TasksTable:     "Tasks",
		ListsUserIndex: "indexUser",
		TasksListIndex: "indexListUuid",
		PageSize:       5,
		TaskAttachment: lists.AttachByIdentity,
		LogLevel:       "info",
		JWTIssuer:      "",
		EnableCORS:     true,
		CORSOrigins:    []string{"*"},
	}
}

// LoadConfig loads defaults, then the YAML file named by CONFIG_FILE, then
// environment variables, and validates the result
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.ListsTable = getEnv("LISTS_TABLE", c.ListsTable)
	c.TasksTable = getEnv("TASKS_TABLE", c.TasksTable)
	c.ListsUserIndex = getEnv("LISTS_USER_INDEX", c.ListsUserIndex)
	c.TasksListIndex = getEnv("TASKS_LIST_INDEX", c.TasksListIndex)

	c.PageSize = getEnvInt("PAGE_SIZE", c.PageSize)
	c.TaskAttachment = getEnv("TASK_ATTACHMENT", c.TaskAttachment)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTAudience = getEnvList("JWT_AUDIENCE", c.JWTAudience)
	c.TrustGatewayHeaders = getEnvBool("TRUST_GATEWAY_HEADERS", c.TrustGatewayHeaders)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.CORSOrigins = getEnvList("CORS_ORIGINS", c.CORSOrigins)
	c.DebugErrors = getEnvBool("DEBUG_ERRORS", c.DebugErrors)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.StoreDriver != StoreDynamoDB && c.StoreDriver != StoreMemory {
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.StoreDriver)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if _, err := lists.ParseAttachmentPolicy(c.TaskAttachment); err != nil {
		return fmt.Errorf("TASK_ATTACHMENT: %w", err)
	}
	if c.StoreDriver == StoreDynamoDB {
		if c.ListsTable == "" || c.TasksTable == "" {
			return fmt.Errorf("LISTS_TABLE and TASKS_TABLE are required")
		}
		if c.ListsUserIndex == "" || c.TasksListIndex == "" {
			return fmt.Errorf("LISTS_USER_INDEX and TASKS_LIST_INDEX are required")
		}
	}

	if c.IsProduction() {
		if c.StoreDriver == StoreMemory {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
		if c.DebugErrors {
			return fmt.Errorf("DEBUG_ERRORS must be off in production")
		}
	}

	return nil
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
