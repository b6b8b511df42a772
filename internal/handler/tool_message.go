package handler

import (
	"fmt"
)

// ToolMessageFormatter handles formatting of tool-related messages
type ToolMessageFormatter struct{}

// NewToolMessageFormatter creates a new ToolMessageFormatter
func NewToolMessageFormatter() *ToolMessageFormatter {
	return &ToolMessageFormatter{}
}

// FormatToolCallMessage describes a tool call in a sentence, for change
// notifications and failure logs. args are the raw call arguments.
func (f *ToolMessageFormatter) FormatToolCallMessage(toolName string, args map[string]any, err error) string {
	if err != nil {
		return f.formatErrorToolCall(toolName, args)
	}
	return f.formatSuccessToolCall(toolName, args)
}

// formatErrorToolCall formats error messages for tool calls
func (f *ToolMessageFormatter) formatErrorToolCall(toolName string, args map[string]any) string {
	issueKey := stringArg(args, "issueKey")
	switch toolName {
	case ToolGetIssue:
		return fmt.Sprintf("Failed to retrieve details for issue %s", issueKey)
	case ToolSearch:
		return fmt.Sprintf("Failed to search with JQL '%s'", stringArg(args, "jql"))
	case ToolCreateIssue:
		return fmt.Sprintf("Failed to create %s in project %s", stringArg(args, "issueType"), stringArg(args, "projectKey"))
	case ToolUpdateIssue:
		return fmt.Sprintf("Failed to update issue %s", issueKey)
	case ToolTransitionIssue:
		return fmt.Sprintf("Failed to transition issue %s", issueKey)
	case ToolAddComment:
		return fmt.Sprintf("Failed to add comment to %s", issueKey)
	case ToolGetTransitions:
		return fmt.Sprintf("Failed to get transitions for %s", issueKey)
	case ToolGetProjects:
		return "Failed to list projects"
	case ToolGetIssueTypes:
		return fmt.Sprintf("Failed to get issue types for project %s", stringArg(args, "projectKey"))
	case ToolSummarizeIssue:
		return fmt.Sprintf("Failed to summarize issue %s", issueKey)
	default:
		return "Operation failed"
	}
}

// formatSuccessToolCall formats success messages for tool calls
func (f *ToolMessageFormatter) formatSuccessToolCall(toolName string, args map[string]any) string {
	issueKey := stringArg(args, "issueKey")
	switch toolName {
	case ToolCreateIssue:
		return fmt.Sprintf("Created new %s in project %s: '%s'",
			stringArg(args, "issueType"), stringArg(args, "projectKey"), stringArg(args, "summary"))
	case ToolUpdateIssue:
		return fmt.Sprintf("Updated issue %s", issueKey)
	case ToolTransitionIssue:
		msg := fmt.Sprintf("Transitioned issue %s (transition ID: %s)", issueKey, stringArg(args, "transitionId"))
		if comment := stringArg(args, "comment"); comment != "" {
			msg += fmt.Sprintf(" with comment: %s", comment)
		}
		return msg
	case ToolAddComment:
		return fmt.Sprintf("Added comment to %s: %s", issueKey, stringArg(args, "comment"))
	case ToolGetIssue:
		return fmt.Sprintf("Retrieved details for issue %s", issueKey)
	case ToolSearch:
		return fmt.Sprintf("Searched issues with JQL '%s'", stringArg(args, "jql"))
	default:
		return "Operation completed"
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
