package handler

import (
	"encoding/json"
	"fmt"

	"jira_gateway/internal/logger"

	"go.uber.org/zap"
)

// prettyPrintJSON formats any value as a pretty-printed JSON string
func prettyPrintJSON(v any) string {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.GetLogger().Error("failed to marshal to JSON", zap.Error(err))
		return fmt.Sprintf("%v", v) // fallback to string representation if marshaling fails
	}
	return string(prettyJSON)
}
