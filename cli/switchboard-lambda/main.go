package main

import (
	"context"
	"log/slog"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/papercomputeco/switchboard/api/lambda"
	"github.com/papercomputeco/switchboard/pkg/bootstrap"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/logger"
)

func main() {
	ctx := context.Background()

	// Settings come only from SWITCHBOARD_* variables here.
	cfg := config.ConfigFromViper(config.EnvViper())

	debug := os.Getenv("SWITCHBOARD_DEBUG") != ""
	log := logger.New(
		logger.WithFormat(logger.FormatJSON),
		logger.WithComponent("lambda"),
		logger.WithWriter(os.Stdout),
		logger.WithDebug(debug),
		logger.WithSource(debug),
	)

	stack, err := bootstrap.New(ctx, cfg, bootstrap.Options{Logger: log})
	if err != nil {
		log.Error("failed to start gateway", "error", err)
		os.Exit(1)
	}

	h, err := lambda.NewHandler(stack.Gateway, log)
	if err != nil {
		log.Error("failed to create handler", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(log)
	awslambda.Start(h.Handle)
}
