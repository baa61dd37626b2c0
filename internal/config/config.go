package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`

	S3BucketName string `mapstructure:"S3_BUCKET_NAME"`
	S3Endpoint   string `mapstructure:"S3_ENDPOINT"` // optional, for MinIO

	DynamoDBTableName string `mapstructure:"DYNAMODB_TABLE_NAME"`

	BedrockModelID string `mapstructure:"BEDROCK_MODEL_ID"`

	SESSenderAddress string `mapstructure:"SES_SENDER_ADDRESS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTKey             string `mapstructure:"JWT_KEY"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("AWS_REGION is required")
	}

	if cfg.AWSAccessKeyID == "" {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID is required")
	}

	if cfg.AWSSecretAccessKey == "" {
		return nil, fmt.Errorf("AWS_SECRET_ACCESS_KEY is required")
	}

	if cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is required")
	}

	if cfg.DynamoDBTableName == "" {
		return nil, fmt.Errorf("DYNAMODB_TABLE_NAME is required")
	}

	if cfg.BedrockModelID == "" {
		return nil, fmt.Errorf("BEDROCK_MODEL_ID is required")
	}

	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY is required")
	}

	if cfg.JWTExpirationHours == 0 {
		cfg.JWTExpirationHours = 24
	}

	return &cfg, nil
}
