package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"jira_gateway/internal/model"
)

// SearchFields limits search payloads to what IssueSummary needs.
var SearchFields = []string{"summary", "status", "assignee", "priority", "reporter"}

// SearchOptions pages a JQL search.
type SearchOptions struct {
	JQL        string
	StartAt    int
	MaxResults int
	Fields     []string
}

// Endpoint renders the search endpoint with percent-encoded query values.
func (o SearchOptions) Endpoint() string {
	q := fmt.Sprintf("search?jql=%s&startAt=%d&maxResults=%d",
		url.QueryEscape(o.JQL), o.StartAt, o.MaxResults)
	if len(o.Fields) > 0 {
		q += "&fields=" + url.QueryEscape(strings.Join(o.Fields, ","))
	}
	return q
}

func issuePath(issueKey string, suffix ...string) string {
	parts := append([]string{"issue", url.PathEscape(issueKey)}, suffix...)
	return strings.Join(parts, "/")
}

// GetIssue fetches issue/{issueKey}. fields narrows the upstream payload when set.
func (c *Client) GetIssue(ctx context.Context, issueKey string, fields ...string) (*model.JiraIssue, error) {
	endpoint := issuePath(issueKey)
	if len(fields) > 0 {
		endpoint += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}
	var issue model.JiraIssue
	if err := c.executeInto(ctx, http.MethodGet, endpoint, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetIssueRaw fetches issue/{issueKey} without shaping.
func (c *Client) GetIssueRaw(ctx context.Context, issueKey string, fields ...string) (any, error) {
	endpoint := issuePath(issueKey)
	if len(fields) > 0 {
		endpoint += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}
	return c.Execute(ctx, http.MethodGet, endpoint, nil)
}

// SearchIssues runs a JQL search.
func (c *Client) SearchIssues(ctx context.Context, opts SearchOptions) (*model.JiraSearchResponse, error) {
	var resp model.JiraSearchResponse
	if err := c.executeInto(ctx, http.MethodGet, opts.Endpoint(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateIssue posts a new issue built from fields and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (*model.JiraCreatedIssue, error) {
	var created model.JiraCreatedIssue
	if err := c.executeInto(ctx, http.MethodPost, "issue", map[string]any{"fields": fields}, &created); err != nil {
		return nil, err
	}
	if created.Key == "" {
		return nil, fmt.Errorf("jira: create issue response carried no key")
	}
	return &created, nil
}

// UpdateIssue puts the given field values on an issue.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, fields map[string]any) error {
	return c.executeInto(ctx, http.MethodPut, issuePath(issueKey), map[string]any{"fields": fields}, nil)
}

// TransitionIssue moves an issue through a workflow transition, optionally
// adding a comment in the same call.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID, comment string) error {
	body := map[string]any{
		"transition": map[string]any{"id": transitionID},
	}
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []any{
				map[string]any{"add": map[string]any{"body": NewRichText(comment)}},
			},
		}
	}
	return c.executeInto(ctx, http.MethodPost, issuePath(issueKey, "transitions"), body, nil)
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, comment string) error {
	return c.executeInto(ctx, http.MethodPost, issuePath(issueKey, "comment"), map[string]any{"body": NewRichText(comment)}, nil)
}

// GetTransitions lists the transitions available on an issue.
func (c *Client) GetTransitions(ctx context.Context, issueKey string) (any, error) {
	return c.Execute(ctx, http.MethodGet, issuePath(issueKey, "transitions"), nil)
}

// GetProjects lists visible projects.
func (c *Client) GetProjects(ctx context.Context) (any, error) {
	return c.Execute(ctx, http.MethodGet, "project", nil)
}

// GetProject fetches project/{projectKey}.
func (c *Client) GetProject(ctx context.Context, projectKey string) (any, error) {
	return c.Execute(ctx, http.MethodGet, "project/"+url.PathEscape(projectKey), nil)
}

// GetIssueTypes returns the issueTypes list of a project.
func (c *Client) GetIssueTypes(ctx context.Context, projectKey string) (any, error) {
	project, err := c.GetProject(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	m, ok := project.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("jira: unexpected project payload for %s", projectKey)
	}
	types, ok := m["issueTypes"]
	if !ok || types == nil {
		return []any{}, nil
	}
	return types, nil
}
