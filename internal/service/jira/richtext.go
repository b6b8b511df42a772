package jira

// RichText is the document wrapper Jira expects for description and comment
// bodies.
type RichText struct {
	Type    string         `json:"type"`
	Version int            `json:"version"`
	Content []RichTextNode `json:"content"`
}

// RichTextNode is a block or inline node of a RichText document.
type RichTextNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Content []RichTextNode `json:"content,omitempty"`
}

// NewRichText wraps plain text in a single-paragraph document.
func NewRichText(text string) RichText {
	return RichText{
		Type:    "doc",
		Version: 1,
		Content: []RichTextNode{
			{
				Type: "paragraph",
				Content: []RichTextNode{
					{Type: "text", Text: text},
				},
			},
		},
	}
}
