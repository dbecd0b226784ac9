package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dayplan/internal/logging"
	"dayplan/internal/model"
)

// Backend endpoints.
const (
	PathTodayStr   = "/get_today_str"
	PathGetDay     = "/get_day"
	PathReload     = "/reload_today"
	PathUpdateTask = "/update_task"
	PathUpdateGoal = "/update_goal"
	PathAddTask    = "/add_task"
	PathAddGoal    = "/add_goal"
	PathAddFood    = "/add_food"
	PathAddWater   = "/add_water"
	PathSearchFood = "/search_food"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the planner backend. The zero value is not usable; use New.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the backend rooted at baseURL (e.g. http://127.0.0.1:5050).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("api: empty server url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c := &Client{
		base: u,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Today returns the backend's notion of today's date (YYYY-MM-DD).
func (c *Client) Today(ctx context.Context) (string, error) {
	var out model.TodayResponse
	if err := c.getJSON(ctx, PathTodayStr, nil, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Today) == "" {
		return "", fmt.Errorf("api: %s: empty today", PathTodayStr)
	}
	return out.Today, nil
}

// Day fetches the document for an explicit date.
func (c *Client) Day(ctx context.Context, date string) (*model.Document, error) {
	return c.getDocument(ctx, PathGetDay, url.Values{"date": {date}})
}

// ReloadToday fetches today's document; the backend may regenerate it.
func (c *Client) ReloadToday(ctx context.Context) (*model.Document, error) {
	return c.getDocument(ctx, PathReload, nil)
}

func (c *Client) UpdateTask(ctx context.Context, part string, index int, done bool, date string) error {
	return c.postForm(ctx, PathUpdateTask, url.Values{
		"part":  {part},
		"index": {strconv.Itoa(index)},
		"done":  {strconv.FormatBool(done)},
		"date":  {date},
	})
}

func (c *Client) UpdateGoal(ctx context.Context, section string, index int, done bool, date string) error {
	return c.postForm(ctx, PathUpdateGoal, url.Values{
		"section": {section},
		"index":   {strconv.Itoa(index)},
		"done":    {strconv.FormatBool(done)},
		"date":    {date},
	})
}

func (c *Client) AddTask(ctx context.Context, section, text string) error {
	return c.postForm(ctx, PathAddTask, url.Values{"section": {section}, "text": {text}})
}

func (c *Client) AddGoal(ctx context.Context, section, text string) error {
	return c.postForm(ctx, PathAddGoal, url.Values{"section": {section}, "text": {text}})
}

func (c *Client) AddFood(ctx context.Context, meal, name string, weight int) error {
	return c.postForm(ctx, PathAddFood, url.Values{
		"meal":   {meal},
		"name":   {name},
		"weight": {strconv.Itoa(weight)},
	})
}

func (c *Client) AddWater(ctx context.Context, amount int) error {
	return c.postForm(ctx, PathAddWater, url.Values{"amount": {strconv.Itoa(amount)}})
}

// SearchFood queries the food database by substring.
func (c *Client) SearchFood(ctx context.Context, q string) ([]model.FoodMatch, error) {
	var out model.SearchResult
	if err := c.getJSON(ctx, PathSearchFood, url.Values{"q": {q}}, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &BackendError{Endpoint: PathSearchFood, Message: out.Error}
	}
	return out.Foods, nil
}

func (c *Client) getDocument(ctx context.Context, path string, q url.Values) (*model.Document, error) {
	var doc model.Document
	if err := c.getJSON(ctx, path, q, &doc); err != nil {
		return nil, err
	}
	if doc.Error != "" {
		return nil, &BackendError{Endpoint: path, Message: doc.Error}
	}
	return &doc, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return fmt.Errorf("api: %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: %s: decode: %w", path, err)
	}
	return nil
}

// postForm sends a form-encoded mutation. The response body is ignored.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("api: %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = c.do(req, path)
	return err
}

func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("http_request", "method", req.Method, "path", path, "error", err.Error())
		return nil, fmt.Errorf("api: %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	c.log.Debug("http_request", "method", req.Method, "path", path, "status", resp.StatusCode, "took", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("api: %s: read body: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: path, Code: resp.StatusCode}
	}
	return body, nil
}
