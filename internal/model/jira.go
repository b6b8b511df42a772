package model

// Sentinels used when an upstream field is absent.
const (
	UnassignedSentinel = "Unassigned"
	NoPrioritySentinel = "None"
	UnknownSentinel    = "Unknown"
)

// JiraIssue represents a Jira issue response
type JiraIssue struct {
	ID     string     `json:"id,omitempty"`
	Key    string     `json:"key"`
	Fields JiraFields `json:"fields"`
}

// JiraFields represents the fields in a Jira issue. Only the fields the
// gateway projects are decoded; the rest of the payload is dropped.
type JiraFields struct {
	Summary  string        `json:"summary"`
	Status   *JiraStatus   `json:"status"`
	Assignee *JiraUser     `json:"assignee"`
	Priority *JiraPriority `json:"priority"`
	Reporter *JiraUser     `json:"reporter"`
}

// JiraStatus represents the status of a Jira issue
type JiraStatus struct {
	Name string `json:"name"`
}

// JiraPriority represents the priority of a Jira issue
type JiraPriority struct {
	Name string `json:"name"`
}

// JiraUser represents a Jira user
type JiraUser struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// JiraSearchResponse represents the response from a Jira search
type JiraSearchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []JiraIssue `json:"issues"`
}

// JiraCreatedIssue is the body returned by POST issue.
type JiraCreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// IssueSummary is the narrowed projection returned for every issue.
type IssueSummary struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Priority string `json:"priority"`
	Reporter string `json:"reporter"`
}

// SearchResult is the shaped search response.
type SearchResult struct {
	Total      int            `json:"total"`
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Issues     []IssueSummary `json:"issues"`
}

// Summarize projects an issue to its six-field summary.
func (i JiraIssue) Summarize() IssueSummary {
	s := IssueSummary{
		Key:      i.Key,
		Summary:  i.Fields.Summary,
		Status:   UnknownSentinel,
		Assignee: UnassignedSentinel,
		Priority: NoPrioritySentinel,
		Reporter: UnknownSentinel,
	}
	if i.Fields.Status != nil {
		s.Status = i.Fields.Status.Name
	}
	if i.Fields.Assignee != nil {
		s.Assignee = i.Fields.Assignee.DisplayName
	}
	if i.Fields.Priority != nil {
		s.Priority = i.Fields.Priority.Name
	}
	if i.Fields.Reporter != nil {
		s.Reporter = i.Fields.Reporter.DisplayName
	}
	return s
}

// Summarize shapes a search response. Upstream ordering is kept.
func (r JiraSearchResponse) Summarize() SearchResult {
	issues := make([]IssueSummary, 0, len(r.Issues))
	for _, issue := range r.Issues {
		issues = append(issues, issue.Summarize())
	}
	return SearchResult{
		Total:      r.Total,
		StartAt:    r.StartAt,
		MaxResults: r.MaxResults,
		Issues:     issues,
	}
}
