// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the Semantic Scholar Graph API and pages through
// the results of one session's query.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// Semantic Scholar search endpoints. Declared as vars so tests can
// substitute an httptest server.
var (
	semanticAPIBase  = "https://api.semanticscholar.org/graph/v1/paper/search"
	semanticBulkBase = "https://api.semanticscholar.org/graph/v1/paper/search/bulk"
)

// semanticFields are the paper fields the acquisition stage consumes.
const semanticFields = "paperId,title,authors,year,url,citationCount,isOpenAccess,openAccessPdf,journal,externalIds"

// Client searches Semantic Scholar.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	UserAgent string
	Log       log.FieldLogger
}

// NewClient builds a client from the search configuration.
func NewClient(cfg types.SearchConfig, logger log.FieldLogger) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
		Log:       logger,
	}
}

// Search runs the query and returns up to MaxPages pages of papers in API
// order. Bulk sessions use the bulk endpoint with token continuation; other
// sessions use relevance search with offset paging. A failure on the first
// page is an error; a failure on a later page ends paging with the results
// collected so far.
func (c *Client) Search(ctx context.Context, params types.SearchParams) ([]types.Paper, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}

	var (
		papers []types.Paper
		offset int
		token  string
	)
	for page := 0; page < params.MaxPages; page++ {
		var (
			reqURL string
			resp   semanticResponse
		)
		if params.Bulk {
			reqURL = semanticBulkBase + "?" + bulkParams(params, token).Encode()
		} else {
			reqURL = semanticAPIBase + "?" + relevanceParams(params, offset).Encode()
		}

		if err := c.fetchPage(ctx, reqURL, &resp); err != nil {
			if page == 0 {
				return nil, err
			}
			c.logger().WithError(err).WithField("page", page+1).Warn("stopping pagination after failed page")
			break
		}

		papers = append(papers, resp.Data...)
		c.logger().WithFields(log.Fields{
			"page":   page + 1,
			"papers": len(resp.Data),
			"total":  resp.Total,
		}).Debug("fetched search page")

		if len(resp.Data) == 0 {
			break
		}
		if params.Bulk {
			if resp.Token == "" {
				break
			}
			token = resp.Token
		} else {
			if resp.Next == nil {
				break
			}
			offset = *resp.Next
		}
	}
	return papers, nil
}

func (c *Client) fetchPage(ctx context.Context, reqURL string, out *semanticResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0, c.logger())
	if err != nil {
		return fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return nil
}

func (c *Client) logger() log.FieldLogger {
	if c.Log == nil {
		return log.StandardLogger()
	}
	return c.Log
}

// filterParams are shared by both endpoints.
func filterParams(p types.SearchParams) url.Values {
	v := url.Values{
		"query":  {p.Query},
		"fields": {semanticFields},
	}
	if p.MinCitationCount > 0 {
		v.Set("minCitationCount", strconv.Itoa(p.MinCitationCount))
	}
	if len(p.FieldsOfStudy) > 0 {
		v.Set("fieldsOfStudy", strings.Join(p.FieldsOfStudy, ","))
	}
	if p.PublicationDateOrYear != "" {
		v.Set("publicationDateOrYear", p.PublicationDateOrYear)
	}
	return v
}

func relevanceParams(p types.SearchParams, offset int) url.Values {
	v := filterParams(p)
	v.Set("offset", strconv.Itoa(offset))
	v.Set("limit", strconv.Itoa(p.MaxResultsPerPage))
	return v
}

// bulkParams omits limit: the bulk endpoint always returns up to 1000 papers.
func bulkParams(p types.SearchParams, token string) url.Values {
	v := filterParams(p)
	if p.Sort != "" && p.Sort != types.SortRelevanceDesc {
		v.Set("sort", p.Sort)
	}
	if token != "" {
		v.Set("token", token)
	}
	return v
}

// semanticResponse covers both endpoints: relevance search sets Offset and
// Next, bulk search sets Token.
type semanticResponse struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Next   *int          `json:"next"`
	Token  string        `json:"token"`
	Data   []types.Paper `json:"data"`
}
