// Package pubmed implements a client for the NCBI E-utilities API
// (esearch + efetch against the pubmed database).
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/biokg/biokg/internal/cache"
	"github.com/biokg/biokg/internal/model"
	"github.com/biokg/biokg/internal/worker"
)

const defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// NCBI caps efetch ID lists; larger searches are fetched in chunks
const fetchChunkSize = 200

const maxResponseBytes = 32 << 20

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail reports whether the contact address satisfies NCBI's
// usage policy requirement
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Client queries PubMed through E-utilities. Every request carries the
// configured contact email and is rate limited per NCBI policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiKey     string
	limiter    *worker.Limiter
	store      cache.Cache // nil disables caching
}

// NewClient creates a PubMed client. The contact email is mandatory.
func NewClient(cfg model.PubMedConfig, store cache.Cache) (*Client, error) {
	if !ValidateEmail(cfg.Email) {
		return nil, fmt.Errorf("invalid contact email %q (NCBI requires a valid address)", cfg.Email)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	limiter := worker.NewLimiter(rps, burst)
	if cfg.APIKey != "" {
		// An API key raises NCBI's limit to 10 req/s
		if host, err := url.Parse(baseURL); err == nil {
			limiter.SetHostRate(host.Host, 10, 10)
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		email:      cfg.Email,
		apiKey:     cfg.APIKey,
		limiter:    limiter,
		store:      store,
	}, nil
}

// Search runs an abstract-field keyword search and fetches the full
// bibliographic record for every hit. An empty result list is not an
// error.
func (c *Client) Search(ctx context.Context, keyword string, maxResults int) ([]model.Article, error) {
	ids, err := c.searchIDs(ctx, keyword, maxResults)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	articles := make([]model.Article, 0, len(ids))
	for start := 0; start < len(ids); start += fetchChunkSize {
		end := start + fetchChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk, err := c.fetchDetails(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("efetch: %w", err)
		}
		articles = append(articles, chunk...)
	}
	return articles, nil
}

// esearch response envelope (retmode=json)
type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (c *Client) searchIDs(ctx context.Context, keyword string, maxResults int) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", fmt.Sprintf("%s[Abstract]", keyword))
	params.Set("retmax", fmt.Sprintf("%d", maxResults))
	params.Set("retmode", "json")

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Result.IDList, nil
}

func (c *Client) fetchDetails(ctx context.Context, ids []string) ([]model.Article, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	return parseArticleSet(body)
}

// get performs one rate-limited, cached E-utilities request
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("email", c.email)
	params.Set("tool", "biokg")
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	key := cache.RequestKey(requestURL)
	if c.store != nil {
		if body, found := c.store.Get(key); found {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx, requestURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.store != nil {
		_ = c.store.Set(key, body, 0)
	}
	return body, nil
}

// efetch XML mapping, limited to the fields the pipeline consumes

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			ArticleTitle string `xml:"ArticleTitle"`
			Abstract     struct {
				Texts []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Title        string `xml:"Title"`
				JournalIssue struct {
					PubDate struct {
						Year  string `xml:"Year"`
						Month string `xml:"Month"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			AuthorList struct {
				Authors []struct {
					LastName string `xml:"LastName"`
					ForeName string `xml:"ForeName"`
				} `xml:"Author"`
			} `xml:"AuthorList"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

func parseArticleSet(data []byte) ([]model.Article, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode XML: %w", err)
	}

	articles := make([]model.Article, 0, len(set.Articles))
	for _, pa := range set.Articles {
		a := pa.MedlineCitation.Article

		names := make([]string, 0, len(a.AuthorList.Authors))
		for _, author := range a.AuthorList.Authors {
			name := strings.TrimSpace(author.ForeName + " " + author.LastName)
			if name != "" {
				names = append(names, name)
			}
		}

		pubDate := a.Journal.JournalIssue.PubDate.Year
		if month := a.Journal.JournalIssue.PubDate.Month; month != "" && pubDate != "" {
			pubDate = pubDate + "-" + month
		}

		articles = append(articles, model.Article{
			PMID:     pa.MedlineCitation.PMID,
			Title:    a.ArticleTitle,
			Abstract: strings.Join(a.Abstract.Texts, " "),
			Journal:  a.Journal.Title,
			Authors:  strings.Join(names, "; "),
			PubDate:  pubDate,
		})
	}
	return articles, nil
}
