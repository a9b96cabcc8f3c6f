// Command aristotle-api serves characters read-only from API Gateway as an
// AWS Lambda function.
//
// Environment:
//
//	ARISTOTLE_TABLE          table name (default "characters")
//	ARISTOTLE_KEY_ATTRIBUTE  partition key attribute (default "character_id")
//	ARISTOTLE_ENDPOINT       DynamoDB endpoint override
//	ARISTOTLE_SCAN_SEGMENTS  parallel scan segments (default 1)
//	ARISTOTLE_LOG_LEVEL      debug, info, warn or error (default info)
//
// Region and credentials come from the standard AWS environment.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/aristotle/api"
	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/store"
)

func main() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("ARISTOTLE_LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := configFromEnv()
	s, err := store.Connect(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to connect", "table", cfg.TableName, "error", err)
		os.Exit(1)
	}
	s.SetLogger(logger)

	h := api.NewHandler(character.NewRepository(s, logger), logger)
	lambda.Start(h.Handle)
}

func configFromEnv() store.Config {
	cfg := store.DefaultConfig()
	if v := os.Getenv("ARISTOTLE_TABLE"); v != "" {
		cfg.TableName = v
	}
	if v := os.Getenv("ARISTOTLE_KEY_ATTRIBUTE"); v != "" {
		cfg.KeyAttribute = v
	}
	cfg.Endpoint = os.Getenv("ARISTOTLE_ENDPOINT")
	if n, err := strconv.Atoi(os.Getenv("ARISTOTLE_SCAN_SEGMENTS")); err == nil {
		cfg.ScanSegments = n
	}
	return cfg
}
