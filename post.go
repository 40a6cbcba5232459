package postfetch

import "encoding/json"

// Method identifies the strategy that produced a post set.
type Method string

// Extraction methods, in cascade order.
const (
	MethodArticle     Method = "article"
	MethodFeed        Method = "feed"
	MethodLink        Method = "link"
	MethodClassBased  Method = "class-based"
	MethodMainContent Method = "main content"
)

// Error messages surfaced in the serialized result.
const (
	MsgPageNotFound   = "Page not found."
	MsgPageTimedOut   = "Page timed out."
	MsgNoContentFound = "No content found"
)

// PostRecord is one extracted post preview.
type PostRecord struct {
	// Title is the text of the heading-like element, if one was found.
	Title *string `json:"title,omitempty"`

	// Post holds the visible body text lines, trimmed to the word budget.
	Post []string `json:"post"`

	URL string `json:"url"`

	// Date is the normalized date ("2006-01-02 15:04:05") or nil when no
	// date pattern was shared by every post in the set.
	Date *string `json:"date"`
}

// PostSet is a list of posts produced by one accepted strategy attempt.
// Valid is nil when no classifier was consulted.
type PostSet struct {
	Method Method       `json:"method"`
	Valid  *bool        `json:"valid_post_set"`
	URL    string       `json:"url"`
	Posts  []PostRecord `json:"posts"`
}

// Result is the outcome of one extraction request. Exactly one of Posts,
// MainContent or Error is populated.
type Result struct {
	PostSet

	// MainContent holds unstructured content lines when every structured
	// strategy failed.
	MainContent []string

	// FullText is the plain text of the page, when requested.
	FullText string

	Error string
}

// ErrorResult converts an application error into a serializable result.
func ErrorResult(err error) *Result {
	return &Result{Error: ErrorMessage(err)}
}

// MarshalJSON encodes the result in one of its three shapes.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	if r.Method == MethodMainContent {
		return json.Marshal(struct {
			Method      Method   `json:"method"`
			Valid       *bool    `json:"valid_post_set"`
			URL         string   `json:"url"`
			MainContent []string `json:"main_content"`
			FullText    string   `json:"full_text,omitempty"`
		}{r.Method, nil, r.URL, r.MainContent, r.FullText})
	}
	return json.Marshal(struct {
		PostSet
		FullText string `json:"full_text,omitempty"`
	}{r.PostSet, r.FullText})
}

// UnmarshalJSON decodes any of the three result shapes.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v struct {
		PostSet
		MainContent []string `json:"main_content"`
		FullText    string   `json:"full_text"`
		Error       string   `json:"error"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Result{
		PostSet:     v.PostSet,
		MainContent: v.MainContent,
		FullText:    v.FullText,
		Error:       v.Error,
	}
	return nil
}
