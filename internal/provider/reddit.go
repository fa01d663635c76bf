package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditSize = 40
	maxRedditSize     = 100
)

// Subreddit is a community to search and the reliability weight its posts carry.
type Subreddit struct {
	Name   string
	Weight float64
}

func DefaultSubreddits() []Subreddit {
	return []Subreddit{
		{Name: "pennystocks", Weight: 1.2},
		{Name: "wallstreetbets", Weight: 1.0},
		{Name: "Shortsqueeze", Weight: 1.1},
		{Name: "stocks", Weight: 0.8},
	}
}

type RedditProvider struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	tracer     trace.Tracer
	limiter    *rate.Limiter
	subreddits []Subreddit
}

func NewRedditProvider(tracer trace.Tracer, subreddits []Subreddit) *RedditProvider {
	if len(subreddits) == 0 {
		subreddits = DefaultSubreddits()
	}
	return &RedditProvider{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    redditBaseURL,
		userAgent:  defaultUserAgent,
		tracer:     tracer,
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 8),
		subreddits: subreddits,
	}
}

func (p *RedditProvider) Subreddits() []Subreddit {
	return append([]Subreddit(nil), p.subreddits...)
}

type redditPost struct {
	ID        string  `json:"id"`
	Subreddit string  `json:"subreddit"`
	Title     string  `json:"title"`
	SelfText  string  `json:"selftext"`
	Score     float64 `json:"score"`
}

// FetchMentions searches every configured subreddit for recent posts naming
// ticker as a word or cashtag. A subreddit that fails is skipped unless all fail.
func (p *RedditProvider) FetchMentions(ctx context.Context, ticker string, limit int) ([]domain.Mention, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-mentions")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker), attribute.Int("subreddits", len(p.subreddits)))

	if limit <= 0 {
		limit = defaultRedditSize
	}
	if limit > maxRedditSize {
		limit = maxRedditSize
	}
	match := tickerMatcher(ticker)

	var (
		mentions []domain.Mention
		errs     []error
	)
	seen := make(map[string]struct{})
	for _, sub := range p.subreddits {
		posts, err := p.search(ctx, sub.Name, ticker, limit)
		if err != nil {
			errs = append(errs, fmt.Errorf("r/%s: %w", sub.Name, err))
			continue
		}
		for _, post := range posts {
			if _, dup := seen[post.ID]; dup || post.ID == "" {
				continue
			}
			text := sanitizeText(post.Title+" "+post.SelfText, 2000)
			if !match.MatchString(text) {
				continue
			}
			seen[post.ID] = struct{}{}
			mentions = append(mentions, domain.Mention{
				Text:         text,
				Engagement:   max(post.Score, 0),
				SourceWeight: sub.Weight,
				Origin:       "r/" + sub.Name,
			})
		}
	}
	if len(mentions) == 0 && len(errs) > 0 && len(errs) == len(p.subreddits) {
		return nil, errors.Join(errs...)
	}
	return mentions, nil
}

func (p *RedditProvider) search(ctx context.Context, subreddit, ticker string, limit int) ([]redditPost, error) {
	q := url.Values{}
	q.Set("q", ticker)
	q.Set("restrict_sr", "1")
	q.Set("sort", "new")
	q.Set("t", "week")
	q.Set("limit", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/r/%s/search.json?%s", strings.TrimRight(p.baseURL, "/"), url.PathEscape(subreddit), q.Encode())

	header := http.Header{}
	if p.userAgent != "" {
		header.Set("User-Agent", p.userAgent)
	}
	body, err := fetch(ctx, p.client, p.limiter, "reddit", u, header)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data redditPost `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode reddit response: %w", err)
	}
	posts := make([]redditPost, 0, len(payload.Data.Children))
	for _, c := range payload.Data.Children {
		posts = append(posts, c.Data)
	}
	return posts, nil
}

// tickerMatcher matches the upper-case ticker as a whole word, or a cashtag in any case.
func tickerMatcher(ticker string) *regexp.Regexp {
	q := regexp.QuoteMeta(ticker)
	return regexp.MustCompile(`(?:\$(?i:` + q + `)|(?:^|[^A-Za-z0-9$])` + q + `)(?:[^A-Za-z0-9]|$)`)
}
