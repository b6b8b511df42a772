package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeDefaultsAbsentFields(t *testing.T) {
	var issue JiraIssue
	require.NoError(t, json.Unmarshal([]byte(`{
		"key": "PROJ-1",
		"fields": {"summary": "Broken build", "status": {"name": "Open"}, "assignee": null}
	}`), &issue))

	assert.Equal(t, IssueSummary{
		Key:      "PROJ-1",
		Summary:  "Broken build",
		Status:   "Open",
		Assignee: "Unassigned",
		Priority: "None",
		Reporter: "Unknown",
	}, issue.Summarize())
}

func TestSummarizeKeepsPresentFields(t *testing.T) {
	issue := JiraIssue{
		Key: "PROJ-2",
		Fields: JiraFields{
			Summary:  "Flaky test",
			Status:   &JiraStatus{Name: "In Progress"},
			Assignee: &JiraUser{Name: "ada", DisplayName: "Ada Lovelace"},
			Priority: &JiraPriority{Name: "High"},
			Reporter: &JiraUser{DisplayName: "Grace Hopper"},
		},
	}

	s := issue.Summarize()
	assert.Equal(t, "Ada Lovelace", s.Assignee)
	assert.Equal(t, "High", s.Priority)
	assert.Equal(t, "Grace Hopper", s.Reporter)
}

func TestSearchSummarizeKeepsOrder(t *testing.T) {
	resp := JiraSearchResponse{
		StartAt:    10,
		MaxResults: 2,
		Total:      42,
		Issues:     []JiraIssue{{Key: "B-2"}, {Key: "A-1"}},
	}

	result := resp.Summarize()
	assert.Equal(t, 42, result.Total)
	assert.Equal(t, 10, result.StartAt)
	assert.Equal(t, 2, result.MaxResults)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "B-2", result.Issues[0].Key)
	assert.Equal(t, "A-1", result.Issues[1].Key)
}

func TestSearchSummarizeEmptyIssuesIsNotNull(t *testing.T) {
	out, err := json.Marshal(JiraSearchResponse{}.Summarize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0,"startAt":0,"maxResults":0,"issues":[]}`, string(out))
}
