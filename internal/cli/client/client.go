// Package client wraps the backend REST surface. Every operation is exactly
// one request/response round trip: no retries, no caching, no coalescing.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"showcase/internal/models"
)

// RequestError carries the HTTP status of a failed call. Status 0 means the
// request never got a response (transport failure).
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

type Client struct {
	baseURL        string
	userIdentifier string
	http           *http.Client
}

// New builds a client for the given API base (e.g. http://localhost:8000/api).
// userIdentifier is sent on like-toggle requests so the server can dedup
// per-user likes; it may be empty for read-only use.
func New(baseURL, userIdentifier string) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		userIdentifier: strings.TrimSpace(userIdentifier),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) ListProjects(category string) ([]models.Project, error) {
	path := "/projects"
	if category != "" && category != "All" {
		path += "?category=" + url.QueryEscape(category)
	}
	var projects []models.Project
	if err := c.get(path, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(id string) (*models.Project, error) {
	var p models.Project
	if err := c.get("/projects/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListComments(projectID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.get("/projects/"+url.PathEscape(projectID)+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ToggleLike sets the caller's like state for a project. The desired target
// state travels in the body; the user identifier in a header.
func (c *Client) ToggleLike(projectID string, isLiking bool) (*models.ProjectLikeResult, error) {
	var result models.ProjectLikeResult
	headers := map[string]string{}
	if c.userIdentifier != "" {
		headers["X-User-Identifier"] = c.userIdentifier
	}
	err := c.do(http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/like",
		map[string]any{"isLiking": isLiking}, &result, headers)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateComment(projectID, content, author string) (*models.Comment, error) {
	var comment models.Comment
	err := c.post("/projects/"+url.PathEscape(projectID)+"/comments",
		map[string]any{"content": content, "author": author}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) ProjectInsight(title, backgroundStory, shortDescription string) (string, error) {
	var resp struct {
		Insight string `json:"insight"`
	}
	err := c.post("/ai/insights", map[string]any{
		"title":            title,
		"backgroundStory":  backgroundStory,
		"shortDescription": shortDescription,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Insight, nil
}

type DiscussionListOptions struct {
	Category string
	Sort     string // latest | popular | active
	Limit    int
	Offset   int
}

func (c *Client) ListDiscussions(opts DiscussionListOptions) ([]models.Discussion, error) {
	params := url.Values{}
	if opts.Category != "" && opts.Category != "all" {
		params.Set("category", opts.Category)
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/discussions"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var discussions []models.Discussion
	if err := c.get(path, &discussions); err != nil {
		return nil, err
	}
	return discussions, nil
}

func (c *Client) GetDiscussion(id string) (*models.Discussion, error) {
	var d models.Discussion
	if err := c.get("/discussions/"+url.PathEscape(id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDiscussion(title, content, category, authorName string) (*models.Discussion, error) {
	var d models.Discussion
	err := c.post("/discussions", map[string]any{
		"title":      title,
		"content":    content,
		"category":   category,
		"authorName": authorName,
	}, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// LikeDiscussion is one-way; the server increments and returns the
// authoritative counter.
func (c *Client) LikeDiscussion(id string) (int, error) {
	var result models.LikeCount
	if err := c.post("/discussions/"+url.PathEscape(id)+"/like", nil, &result); err != nil {
		return 0, err
	}
	return result.LikesCount, nil
}

func (c *Client) ListReplies(discussionID string) ([]models.Reply, error) {
	var replies []models.Reply
	if err := c.get("/discussions/"+url.PathEscape(discussionID)+"/replies", &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func (c *Client) CreateReply(discussionID, content, authorName string, replyToID *string) (*models.Reply, error) {
	body := map[string]any{
		"content":    content,
		"authorName": authorName,
	}
	if replyToID != nil {
		body["replyToId"] = *replyToID
	}
	var reply models.Reply
	if err := c.post("/discussions/"+url.PathEscape(discussionID)+"/replies", body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) LikeReply(discussionID, replyID string) (int, error) {
	var result models.LikeCount
	err := c.post("/discussions/"+url.PathEscape(discussionID)+"/replies/"+url.PathEscape(replyID)+"/like", nil, &result)
	if err != nil {
		return 0, err
	}
	return result.LikesCount, nil
}

func (c *Client) Stats() (*models.DiscussionStats, error) {
	var stats models.DiscussionStats
	if err := c.get("/discussions/stats/overview", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(path string, body any, out any) error {
	return c.do(http.MethodPost, path, body, out, nil)
}

func (c *Client) do(method, path string, body any, out any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if msg, ok := payload["error"].(string); ok {
				return &RequestError{Status: resp.StatusCode, Message: msg}
			}
		}
		return &RequestError{Status: resp.StatusCode}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
