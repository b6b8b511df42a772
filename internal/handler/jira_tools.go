package handler

import (
	"context"
	"fmt"

	"jira_gateway/internal/model"
	"jira_gateway/internal/service/jira"
)

// Tool names.
const (
	ToolGetIssue        = "get_issue"
	ToolSearch          = "search"
	ToolCreateIssue     = "create_issue"
	ToolUpdateIssue     = "update_issue"
	ToolTransitionIssue = "transition_issue"
	ToolAddComment      = "add_comment"
	ToolGetTransitions  = "get_transitions"
	ToolGetProjects     = "get_projects"
	ToolGetIssueTypes   = "get_issue_types"
	ToolSummarizeIssue  = "summarize_issue"
)

// DefaultMaxResults caps search pages when the caller does not ask for a size.
const DefaultMaxResults = 50

// ErrNoUpdateFields is returned by update_issue when no field was supplied.
var ErrNoUpdateFields = &ValidationError{Reason: "No fields provided to update"}

// summarizeFields are fetched for summarize_issue.
var summarizeFields = []string{"summary", "status", "description", "comment"}

// JiraClient is the subset of the Jira REST client the tools use.
type JiraClient interface {
	GetIssue(ctx context.Context, issueKey string, fields ...string) (*model.JiraIssue, error)
	GetIssueRaw(ctx context.Context, issueKey string, fields ...string) (any, error)
	SearchIssues(ctx context.Context, opts jira.SearchOptions) (*model.JiraSearchResponse, error)
	CreateIssue(ctx context.Context, fields map[string]any) (*model.JiraCreatedIssue, error)
	UpdateIssue(ctx context.Context, issueKey string, fields map[string]any) error
	TransitionIssue(ctx context.Context, issueKey, transitionID, comment string) error
	AddComment(ctx context.Context, issueKey, comment string) error
	GetTransitions(ctx context.Context, issueKey string) (any, error)
	GetProjects(ctx context.Context) (any, error)
	GetIssueTypes(ctx context.Context, projectKey string) (any, error)
}

type jiraHandlers struct {
	client     JiraClient
	summarizer Summarizer
}

func issueKeyParam() Param {
	return Param{Name: "issueKey", Type: ParamString, Required: true, Description: "Jira issue key (e.g., 'PROJ-123')"}
}

// jiraTools returns the tool table. summarize_issue is only present when a
// summarizer is available.
func jiraTools(client JiraClient, summarizer Summarizer) []Tool {
	h := &jiraHandlers{client: client, summarizer: summarizer}
	tools := []Tool{
		{
			Descriptor: ToolDescriptor{
				Name:        ToolGetIssue,
				Description: "Get the summary, status, assignee, priority and reporter of a Jira issue",
				Params:      []Param{issueKeyParam()},
			},
			Handler: h.getIssue,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolSearch,
				Description: "Search Jira issues using JQL",
				Params: []Param{
					{Name: "jql", Type: ParamString, Required: true, Description: "JQL query string"},
					{Name: "startAt", Type: ParamInteger, Default: 0, Min: minimum(0), Description: "Index of the first result to return (default 0)"},
					{Name: "maxResults", Type: ParamInteger, Default: DefaultMaxResults, Min: minimum(1), Description: "Maximum number of results to return (default 50)"},
				},
			},
			Handler: h.search,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolCreateIssue,
				Description: "Create a new Jira issue",
				Params: []Param{
					{Name: "projectKey", Type: ParamString, Required: true, Description: "Key of the project to create the issue in"},
					{Name: "issueType", Type: ParamString, Required: true, Description: "Issue type name (e.g., 'Bug', 'Task')"},
					{Name: "summary", Type: ParamString, Required: true, Description: "Issue summary"},
					{Name: "description", Type: ParamString, Description: "Issue description"},
					{Name: "assignee", Type: ParamString, Description: "Username of the assignee"},
					{Name: "priority", Type: ParamString, Description: "Priority name (e.g., 'High')"},
				},
			},
			Handler:  h.createIssue,
			Mutating: true,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolUpdateIssue,
				Description: "Update fields of an existing Jira issue",
				Params: []Param{
					issueKeyParam(),
					{Name: "summary", Type: ParamString, Description: "New summary"},
					{Name: "description", Type: ParamString, Description: "New description"},
					{Name: "assignee", Type: ParamString, Description: "Username of the new assignee"},
					{Name: "priority", Type: ParamString, Description: "New priority name"},
				},
			},
			Handler:  h.updateIssue,
			Mutating: true,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolTransitionIssue,
				Description: "Move a Jira issue through a workflow transition",
				Params: []Param{
					issueKeyParam(),
					{Name: "transitionId", Type: ParamString, Required: true, Description: "Transition ID, see get_transitions"},
					{Name: "comment", Type: ParamString, Description: "Comment to add with the transition"},
				},
			},
			Handler:  h.transitionIssue,
			Mutating: true,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolAddComment,
				Description: "Add a comment to a Jira issue",
				Params: []Param{
					issueKeyParam(),
					{Name: "comment", Type: ParamString, Required: true, Description: "Comment text"},
				},
			},
			Handler:  h.addComment,
			Mutating: true,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolGetTransitions,
				Description: "List the workflow transitions available for a Jira issue",
				Params:      []Param{issueKeyParam()},
			},
			Handler: h.getTransitions,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolGetProjects,
				Description: "List visible Jira projects",
			},
			Handler: h.getProjects,
		},
		{
			Descriptor: ToolDescriptor{
				Name:        ToolGetIssueTypes,
				Description: "List the issue types of a Jira project",
				Params: []Param{
					{Name: "projectKey", Type: ParamString, Required: true, Description: "Project key"},
				},
			},
			Handler: h.getIssueTypes,
		},
	}

	if summarizer != nil {
		tools = append(tools, Tool{
			Descriptor: ToolDescriptor{
				Name:        ToolSummarizeIssue,
				Description: "Summarize a Jira issue and its comments in a few sentences",
				Params:      []Param{issueKeyParam()},
			},
			Handler: h.summarizeIssue,
		})
	}
	return tools
}

func (h *jiraHandlers) getIssue(ctx context.Context, args Args) Result {
	issue, err := h.client.GetIssue(ctx, args.MustString("issueKey"))
	if err != nil {
		return Failure(err)
	}
	return JSON(issue.Summarize())
}

func (h *jiraHandlers) search(ctx context.Context, args Args) Result {
	startAt, _ := args.Int("startAt")
	maxResults, ok := args.Int("maxResults")
	if !ok {
		maxResults = DefaultMaxResults
	}
	resp, err := h.client.SearchIssues(ctx, jira.SearchOptions{
		JQL:        args.MustString("jql"),
		StartAt:    startAt,
		MaxResults: maxResults,
		Fields:     jira.SearchFields,
	})
	if err != nil {
		return Failure(err)
	}
	return JSON(resp.Summarize())
}

func (h *jiraHandlers) createIssue(ctx context.Context, args Args) Result {
	created, err := h.client.CreateIssue(ctx, buildCreateFields(args))
	if err != nil {
		return Failure(err)
	}
	return h.fetchAfter(ctx, created.Key, "created")
}

func (h *jiraHandlers) updateIssue(ctx context.Context, args Args) Result {
	payload := buildUpdatePayload(args)
	if len(payload) == 0 {
		return Failure(ErrNoUpdateFields)
	}
	issueKey := args.MustString("issueKey")
	if err := h.client.UpdateIssue(ctx, issueKey, payload); err != nil {
		return Failure(err)
	}
	return h.fetchAfter(ctx, issueKey, "updated")
}

// fetchAfter is step two of create and update. A failure here leaves the
// upstream change in place.
func (h *jiraHandlers) fetchAfter(ctx context.Context, issueKey, action string) Result {
	issue, err := h.client.GetIssue(ctx, issueKey)
	if err != nil {
		return Failure(&PartialFailureError{IssueKey: issueKey, Action: action, Err: err})
	}
	return JSON(issue.Summarize())
}

func (h *jiraHandlers) transitionIssue(ctx context.Context, args Args) Result {
	issueKey := args.MustString("issueKey")
	err := h.client.TransitionIssue(ctx, issueKey, args.MustString("transitionId"), args.MustString("comment"))
	if err != nil {
		return Failure(err)
	}
	return Text(fmt.Sprintf("Successfully transitioned issue %s", issueKey))
}

func (h *jiraHandlers) addComment(ctx context.Context, args Args) Result {
	issueKey := args.MustString("issueKey")
	if err := h.client.AddComment(ctx, issueKey, args.MustString("comment")); err != nil {
		return Failure(err)
	}
	return Text(fmt.Sprintf("Successfully added comment to issue %s", issueKey))
}

func (h *jiraHandlers) getTransitions(ctx context.Context, args Args) Result {
	return rawResult(h.client.GetTransitions(ctx, args.MustString("issueKey")))
}

func (h *jiraHandlers) getProjects(ctx context.Context, _ Args) Result {
	return rawResult(h.client.GetProjects(ctx))
}

func (h *jiraHandlers) getIssueTypes(ctx context.Context, args Args) Result {
	return rawResult(h.client.GetIssueTypes(ctx, args.MustString("projectKey")))
}

func (h *jiraHandlers) summarizeIssue(ctx context.Context, args Args) Result {
	issueKey := args.MustString("issueKey")
	issue, err := h.client.GetIssueRaw(ctx, issueKey, summarizeFields...)
	if err != nil {
		return Failure(err)
	}
	summary, err := h.summarizer.Summarize(ctx, issueKey, issue)
	if err != nil {
		return Failure(fmt.Errorf("summarize %s: %w", issueKey, err))
	}
	return Text(summary)
}

func rawResult(v any, err error) Result {
	if err != nil {
		return Failure(err)
	}
	return JSON(v)
}

// buildCreateFields always sets project, type and summary; the optional
// fields are only present when supplied.
func buildCreateFields(args Args) map[string]any {
	fields := map[string]any{
		"project":   map[string]any{"key": args.MustString("projectKey")},
		"issuetype": map[string]any{"name": args.MustString("issueType")},
		"summary":   args.MustString("summary"),
	}
	if description, ok := args.String("description"); ok {
		fields["description"] = jira.NewRichText(description)
	}
	if assignee, ok := args.String("assignee"); ok {
		fields["assignee"] = map[string]any{"name": assignee}
	}
	if priority, ok := args.String("priority"); ok {
		fields["priority"] = map[string]any{"name": priority}
	}
	return fields
}

// buildUpdatePayload keeps only supplied fields. summary and description
// pass through unchanged.
func buildUpdatePayload(args Args) map[string]any {
	payload := map[string]any{}
	if summary, ok := args.String("summary"); ok {
		payload["summary"] = summary
	}
	if description, ok := args.String("description"); ok {
		payload["description"] = description
	}
	if assignee, ok := args.String("assignee"); ok {
		payload["assignee"] = map[string]any{"name": assignee}
	}
	if priority, ok := args.String("priority"); ok {
		payload["priority"] = map[string]any{"name": priority}
	}
	return payload
}
