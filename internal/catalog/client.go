package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/models"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrRequestFailed   = errors.New("catalog request failed")
	ErrNotFound        = errors.New("catalog resource not found")
	ErrResponseInvalid = errors.New("catalog response invalid")
	ErrInvalidInput    = errors.New("catalog rejected input")
)

const defaultTimeout = 10 * time.Second

var catalogJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Client 只读商品目录后端客户端
type Client struct {
	baseURL    string
	origin     string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient 创建目录客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &Client{
		baseURL:    trimmed,
		origin:     resolveOrigin(trimmed),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// ListScripts 获取全部脚本，保持上游顺序
func (c *Client) ListScripts(ctx context.Context) ([]models.Script, error) {
	records, err := c.getList(ctx, "/scripts/")
	if err != nil {
		return nil, err
	}
	scripts := make([]models.Script, 0, len(records))
	for _, record := range records {
		script, err := normalizeScript(record, c.origin)
		if err != nil {
			return nil, err
		}
		if script.Slug == "" {
			continue
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

// GetScript 按 slug 获取脚本详情
func (c *Client) GetScript(ctx context.Context, slug string) (*models.Script, error) {
	record, err := c.getObject(ctx, "/scripts/"+url.PathEscape(slug)+"/")
	if err != nil {
		return nil, err
	}
	script, err := normalizeScript(record, c.origin)
	if err != nil {
		return nil, err
	}
	if script.Slug == "" {
		return nil, fmt.Errorf("%w: script slug is empty", ErrResponseInvalid)
	}
	return &script, nil
}

// ListPosts 获取文章列表
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	records, err := c.getList(ctx, "/posts/")
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(records))
	for _, record := range records {
		post, err := normalizePost(record)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// GetPost 按 slug 获取文章
func (c *Client) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	record, err := c.getObject(ctx, "/posts/"+url.PathEscape(slug)+"/")
	if err != nil {
		return nil, err
	}
	post, err := normalizePost(record)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListFAQs 获取常见问题
func (c *Client) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	records, err := c.getList(ctx, "/faqs/")
	if err != nil {
		return nil, err
	}
	faqs := make([]models.FAQ, 0, len(records))
	for _, record := range records {
		var faq models.FAQ
		if err := decodeContent(record, &faq); err != nil {
			return nil, err
		}
		faqs = append(faqs, faq)
	}
	return faqs, nil
}

// ListTestimonials 获取用户好评
func (c *Client) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	records, err := c.getList(ctx, "/testimonials/")
	if err != nil {
		return nil, err
	}
	items := make([]models.Testimonial, 0, len(records))
	for _, record := range records {
		item, err := normalizeTestimonial(record, c.origin)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetStats 获取站点统计
func (c *Client) GetStats(ctx context.Context) (*models.SiteStats, error) {
	record, err := c.getObject(ctx, "/stats/")
	if err != nil {
		return nil, err
	}
	var stats models.SiteStats
	if err := decodeContent(record, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListTeamMembers 获取团队成员
func (c *Client) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	records, err := c.getList(ctx, "/team-members/")
	if err != nil {
		return nil, err
	}
	members := make([]models.TeamMember, 0, len(records))
	for _, record := range records {
		var member models.TeamMember
		if err := decodeContent(record, &member); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// ListFeaturedServers 获取合作服务器
func (c *Client) ListFeaturedServers(ctx context.Context) ([]models.FeaturedServer, error) {
	records, err := c.getList(ctx, "/featured-servers/")
	if err != nil {
		return nil, err
	}
	servers := make([]models.FeaturedServer, 0, len(records))
	for _, record := range records {
		var server models.FeaturedServer
		if err := decodeContent(record, &server); err != nil {
			return nil, err
		}
		server.Image = resolveMediaURL(c.origin, server.Image)
		servers = append(servers, server)
	}
	return servers, nil
}

// GetLoginURL 获取后端生成的单点登录地址
func (c *Client) GetLoginURL(ctx context.Context) (string, error) {
	record, err := c.getObject(ctx, "/fivem-login/")
	if err != nil {
		return "", err
	}
	loginURL := strings.TrimSpace(readString(record, "url"))
	if loginURL == "" {
		return "", fmt.Errorf("%w: login url is empty", ErrResponseInvalid)
	}
	return loginURL, nil
}

// ReviewInput 提交评价的请求体
type ReviewInput struct {
	ScriptID    string `json:"script_id"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// WriteReview 提交脚本评价，上游 400 返回 ErrInvalidInput
func (c *Client) WriteReview(ctx context.Context, input ReviewInput) error {
	payload, err := catalogJSON.Marshal(input)
	if err != nil {
		return fmt.Errorf("%w: encode review failed", ErrRequestFailed)
	}
	status, body, err := c.doPost(ctx, "/write-review/", payload)
	if err != nil {
		return err
	}
	var parsed map[string]interface{}
	_ = catalogJSON.Unmarshal(body, &parsed)
	msg := readString(parsed, "error")

	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: script %s", ErrNotFound, input.ScriptID)
	case status < 200 || status >= 300:
		return fmt.Errorf("%w: write review status %d", ErrRequestFailed, status)
	case msg != "":
		return errorFromBody(msg)
	}
	return nil
}

func (c *Client) getList(ctx context.Context, endpoint string) ([]map[string]interface{}, error) {
	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var parsed interface{}
	if err := catalogJSON.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode %s failed", ErrResponseInvalid, endpoint)
	}
	switch v := parsed.(type) {
	case []interface{}:
		records := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if record, ok := item.(map[string]interface{}); ok {
				records = append(records, record)
			}
		}
		return records, nil
	case map[string]interface{}:
		if msg := readString(v, "error"); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrRequestFailed, msg)
		}
	}
	return nil, fmt.Errorf("%w: %s is not a list", ErrResponseInvalid, endpoint)
}

func (c *Client) getObject(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	body, err := c.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var parsed map[string]interface{}
	if err := catalogJSON.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode %s failed", ErrResponseInvalid, endpoint)
	}
	if msg := readString(parsed, "error"); msg != "" {
		return nil, errorFromBody(msg)
	}
	return parsed, nil
}

// errorFromBody 上游把 404 包装成 200 + {"error": "..."}，按文案识别
func errorFromBody(msg string) error {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "matches the given query") || strings.Contains(lower, "not found") {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
}

func (c *Client) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request failed: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s status %d", ErrRequestFailed, endpoint, resp.StatusCode)
	}
	return body, nil
}

func (c *Client) doPost(ctx context.Context, endpoint string, payload []byte) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: http request failed: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func resolveOrigin(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
