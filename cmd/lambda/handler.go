package main

import (
	"context"
	"fmt"

	"jira_gateway/internal/app"
	"jira_gateway/internal/config"
	"jira_gateway/internal/logger"
	mcpserver "jira_gateway/internal/service/mcp-server"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

var ginLambda *ginadapter.GinLambda

// initGateway wires the gateway once per cold start. The Lambda always serves
// the HTTP transport, whatever MCP_TRANSPORT says.
func initGateway(ctx context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	gateway, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	ginLambda = ginadapter.New(mcpserver.NewEngine(gateway.MCPServer, log.Named("http")))
	return nil
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}
