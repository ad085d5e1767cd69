// Web search tool backed by the DuckDuckGo answer API.
//
// Information Hiding:
// - Search provider endpoint and response shape internalized
// - Network failures become readable output, never panics

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const duckDuckGoAPI = "https://api.duckduckgo.com/"

const defaultSearchResults = 5

// WebSearchTool searches the web and returns formatted snippets.
type WebSearchTool struct {
	client *http.Client
}

// NewWebSearchTool creates a web search tool with the given timeout.
func NewWebSearchTool(timeoutSecs uint64) *WebSearchTool {
	return &WebSearchTool{
		client: &http.Client{
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
	}
}

// Metadata returns the tool metadata.
func (t *WebSearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "web_search",
		Description: "Search the web for the given query. Returns a formatted string of titles, snippets, and source URLs.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "The search query", Required: true},
			{Name: "max_results", ParamType: "integer", Description: "Maximum number of results to return", Required: false, Default: defaultSearchResults},
		},
	}
}

// searchResult is one hit after flattening the API response.
type searchResult struct {
	Title string
	Body  string
	Href  string
}

// ddgResponse mirrors the fields we read from the answer API.
type ddgResponse struct {
	Heading      string `json:"Heading"`
	AbstractText string `json:"AbstractText"`
	AbstractURL  string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
		Topics   []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"Topics"`
	} `json:"RelatedTopics"`
}

// Execute runs the search and formats the hits as numbered entries.
func (t *WebSearchTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if strings.TrimSpace(a.Query) == "" {
		return FailureResultf("query cannot be empty"), nil
	}

	maxResults := a.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}

	results, err := t.search(ctx, a.Query)
	if err != nil {
		return SuccessResult(fmt.Sprintf("Search error: %v", err)), nil
	}
	if len(results) == 0 {
		return SuccessResult("No results found."), nil
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s\n   Source: %s", i+1, r.Title, r.Body, r.Href))
	}
	return SuccessResult(strings.Join(lines, "\n\n")), nil
}

// search queries the answer API and flattens the response.
func (t *WebSearchTool) search(ctx context.Context, query string) ([]searchResult, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		duckDuckGoAPI, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "scholar/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed ddgResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var results []searchResult
	if parsed.AbstractText != "" {
		results = append(results, searchResult{
			Title: parsed.Heading,
			Body:  parsed.AbstractText,
			Href:  parsed.AbstractURL,
		})
	}
	for _, topic := range parsed.RelatedTopics {
		if topic.Text != "" {
			results = append(results, searchResult{
				Title: topicTitle(topic.Text),
				Body:  topic.Text,
				Href:  topic.FirstURL,
			})
		}
		for _, sub := range topic.Topics {
			if sub.Text != "" {
				results = append(results, searchResult{
					Title: topicTitle(sub.Text),
					Body:  sub.Text,
					Href:  sub.FirstURL,
				})
			}
		}
	}
	return results, nil
}

// topicTitle derives a short title from a related-topic snippet. The
// API prefixes snippets with the topic name followed by a dash.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	if len(text) > 60 {
		return text[:60]
	}
	return text
}
