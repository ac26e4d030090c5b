package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/app"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/auth"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/config"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/logging"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/notification"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/payments"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	decrypter, err := secrets.NewDecrypter(context.Background(), cfg.SecretsMode)
	if err != nil {
		logger.Error("build decrypter", "error", err)
		os.Exit(1)
	}

	// One runtime per container: secrets and the store connection survive
	// across warm invocations.
	runtime := app.NewRuntime(cfg, secrets.NewResolver(decrypter), logger)
	service := payments.NewService(runtime, auth.NewVerifier(), notification.NewLoggerNotifier(logger), logger)
	handler := payments.NewHandler(service, logger, cfg.RequestTimeout)

	lambda.Start(func(ctx context.Context, event json.RawMessage) (payments.Response, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			ctx = logging.WithRequestID(ctx, lc.AwsRequestID)
		}
		return handler.HandleEvent(ctx, event), nil
	})
}
