package main

import (
	"context"

	"jira_gateway/internal/logger"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	if err := initGateway(context.Background()); err != nil {
		logger.GetLogger().Fatal("failed to initialize gateway", zap.Error(err))
	}
	defer logger.Sync()
	lambda.Start(handleRequest)
}
