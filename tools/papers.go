// Academic paper search: Semantic Scholar and arXiv.
//
// Information Hiding:
// - Per-source API formats (JSON graph API, Atom XML) internalized
// - Cross-source merging and deduplication hidden from callers

package tools

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	semanticScholarBase = "https://api.semanticscholar.org/graph/v1"
	arxivAPI            = "http://export.arxiv.org/api/query"
)

const defaultPaperResults = 10

// paper is one normalized result from either source.
type paper struct {
	Title         string
	Authors       string
	Abstract      string
	URL           string
	Year          string
	CitationCount *int
}

// PaperSearchTool finds academic papers across Semantic Scholar and arXiv.
type PaperSearchTool struct {
	client *http.Client
}

// NewPaperSearchTool creates a paper search tool with the given timeout.
func NewPaperSearchTool(timeoutSecs uint64) *PaperSearchTool {
	return &PaperSearchTool{
		client: &http.Client{
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
	}
}

// Metadata returns the tool metadata.
func (t *PaperSearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "search_academic_papers",
		Description: "Search for academic papers by topic. Use for literature searches or discovering research on a subject. Sources: semantic_scholar (published papers, many fields), arxiv (preprints, CS/math/physics), or both.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "Topic or research question to search for", Required: true},
			{Name: "max_results", ParamType: "integer", Description: "Maximum number of papers to return", Required: false, Default: defaultPaperResults},
			{Name: "source", ParamType: "string", Description: "Where to search: semantic_scholar, arxiv, or both", Required: false, Default: "both"},
		},
	}
}

// Execute searches the requested sources and merges the results.
// Semantic Scholar results are preferred; arXiv entries that duplicate
// a title already seen are dropped.
func (t *PaperSearchTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
		Source     string `json:"source"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if strings.TrimSpace(a.Query) == "" {
		return SuccessResult("Please provide a search query (e.g. a topic or research question)."), nil
	}

	maxResults := a.MaxResults
	if maxResults <= 0 {
		maxResults = defaultPaperResults
	}
	source := a.Source
	if source == "" {
		source = "both"
	}

	limitEach := maxResults
	if source == "both" {
		limitEach = (maxResults + 1) / 2
		if limitEach < 5 {
			limitEach = 5
		}
	}

	var papers []paper
	if source == "both" || source == "semantic_scholar" {
		papers = append(papers, t.searchSemanticScholar(ctx, a.Query, limitEach)...)
	}
	if source == "both" || source == "arxiv" {
		seen := make(map[string]bool, len(papers))
		for _, p := range papers {
			seen[titleKey(p.Title)] = true
		}
		for _, p := range t.searchArxiv(ctx, a.Query, limitEach) {
			key := titleKey(p.Title)
			if !seen[key] {
				papers = append(papers, p)
				seen[key] = true
			}
		}
	}

	if len(papers) == 0 {
		return SuccessResult("No academic papers found for that query. Try a different or broader search."), nil
	}
	if len(papers) > maxResults {
		papers = papers[:maxResults]
	}

	lines := make([]string, 0, len(papers))
	for i, p := range papers {
		title := p.Title
		if title == "" {
			title = "No title"
		}
		authors := p.Authors
		if authors == "" {
			authors = "Unknown"
		}
		abstract := p.Abstract
		if len(abstract) > 400 {
			abstract = abstract[:400]
		}
		yearStr := ""
		if p.Year != "" {
			yearStr = fmt.Sprintf(" (%s)", p.Year)
		}
		citeStr := ""
		if p.CitationCount != nil {
			citeStr = fmt.Sprintf(" [cited %d×]", *p.CitationCount)
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s%s\n   Authors: %s\n   %s\n   %s",
			i+1, title, yearStr, citeStr, authors, abstract, p.URL))
	}
	return SuccessResult(strings.Join(lines, "\n\n")), nil
}

// titleKey is the dedup key for a paper title.
func titleKey(title string) string {
	key := strings.ToLower(title)
	if len(key) > 60 {
		key = key[:60]
	}
	return key
}

// get fetches a URL, returning nil on any failure. Paper search treats
// a failed source as empty rather than aborting the whole search.
func (t *PaperSearchTool) get(ctx context.Context, endpoint string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "scholar/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// semanticScholarResponse mirrors the graph API paper search payload.
type semanticScholarResponse struct {
	Data []struct {
		PaperID       string `json:"paperId"`
		Title         string `json:"title"`
		URL           string `json:"url"`
		Abstract      string `json:"abstract"`
		Year          *int   `json:"year"`
		CitationCount *int   `json:"citationCount"`
		Authors       []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"data"`
}

func (t *PaperSearchTool) searchSemanticScholar(ctx context.Context, query string, limit int) []paper {
	if limit > 100 {
		limit = 100
	}
	q := url.QueryEscape(strings.ReplaceAll(strings.TrimSpace(query), "-", " "))
	endpoint := fmt.Sprintf("%s/paper/search?query=%s&limit=%d&fields=title,url,abstract,authors,year,citationCount",
		semanticScholarBase, q, limit)

	body := t.get(ctx, endpoint)
	if body == nil {
		return nil
	}

	var parsed semanticScholarResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	papers := make([]paper, 0, len(parsed.Data))
	for _, p := range parsed.Data {
		names := make([]string, 0, 5)
		for i, a := range p.Authors {
			if i == 5 {
				break
			}
			names = append(names, a.Name)
		}
		authors := strings.Join(names, ", ")
		if len(p.Authors) > 5 {
			authors += " et al."
		}

		link := p.URL
		if link == "" {
			link = "https://www.semanticscholar.org/paper/" + p.PaperID
		}
		abstract := p.Abstract
		if len(abstract) > 500 {
			abstract = abstract[:500]
		}
		year := ""
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		papers = append(papers, paper{
			Title:         p.Title,
			Authors:       authors,
			Abstract:      abstract,
			URL:           link,
			Year:          year,
			CitationCount: p.CitationCount,
		})
	}
	return papers
}

// arxivFeed mirrors the Atom feed returned by the arXiv query API.
type arxivFeed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title     string `xml:"title"`
		Summary   string `xml:"summary"`
		ID        string `xml:"id"`
		Published string `xml:"published"`
		Authors   []struct {
			Name string `xml:"name"`
		} `xml:"author"`
	} `xml:"entry"`
}

func (t *PaperSearchTool) searchArxiv(ctx context.Context, query string, limit int) []paper {
	q := url.QueryEscape(strings.TrimSpace(query))
	endpoint := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d", arxivAPI, q, limit)

	body := t.get(ctx, endpoint)
	if body == nil {
		return nil
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil
	}

	papers := make([]paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		title := strings.TrimSpace(e.Title)
		if title == "" || title == "Error" {
			continue
		}
		summary := strings.ReplaceAll(strings.TrimSpace(e.Summary), "\n", " ")
		if len(summary) > 500 {
			summary = summary[:500]
		}
		names := make([]string, 0, 5)
		for i, a := range e.Authors {
			if i == 5 {
				break
			}
			names = append(names, a.Name)
		}
		authors := strings.Join(names, ", ")
		if len(e.Authors) > 5 {
			authors += " et al."
		}
		year := ""
		if len(e.Published) >= 4 {
			year = e.Published[:4]
		}
		papers = append(papers, paper{
			Title:    title,
			Authors:  authors,
			Abstract: summary,
			URL:      strings.TrimSpace(e.ID),
			Year:     year,
		})
	}
	return papers
}
