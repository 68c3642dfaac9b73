package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// 上游识餐接口整体预算 25 秒，超时直接报 ErrTimeout 给调用方翻译成 504
const DefaultTimeout = 25 * time.Second

var (
	ErrTimeout  = errors.New("analysis upstream timeout")
	ErrUpstream = errors.New("analysis upstream error")
)

// Result 上游返回的结构化营养识别结果
type Result struct {
	FoodName string   `json:"food_name"`
	Calories int      `json:"calories"`
	Protein  float64  `json:"protein_g"`
	Carbs    float64  `json:"carbs_g"`
	Fat      float64  `json:"fat_g"`
	Tags     []string `json:"tags"`
	Advice   string   `json:"advice"`
	NextStep string   `json:"next_step"`
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Analyze 把图片（URL 或 base64）连同提示词发给上游，拿结构化营养 JSON
// 失败只有两种：超时（ErrTimeout）和上游错误状态（ErrUpstream），不在这里重试
func (c *Client) Analyze(ctx context.Context, image, prompt string) (*Result, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base url not configured", ErrUpstream)
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	payload, err := json.Marshal(map[string]any{
		"image":  image,
		"prompt": prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analysis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrTimeout
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out Result
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: bad response json: %v", ErrUpstream, err)
	}
	return &out, nil
}
