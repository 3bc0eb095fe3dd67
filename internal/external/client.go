// internal/external/client.go
package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
)

// ClientInterface is the slice of the voice platform API this service consumes.
type ClientInterface interface {
	Login() (string, error)
	CreateCampaign(payload map[string]any) (map[string]any, error)
	UpdateCampaign(externalID string, payload map[string]any) (map[string]any, error)
	CreateCall(payload map[string]any) (map[string]any, error)
	ListCalls(campaignID, start, end string, pageSize int, cursor string) (*CallListPage, error)
	RecordingURL(campaignID, callID string) (*Recording, error)
}

// CallListPage is one page of the external call listing.
type CallListPage struct {
	Items      []map[string]any `json:"items"`
	HasMore    bool             `json:"has_more"`
	NextCursor string           `json:"next_cursor"`
}

// Recording is a short-lived link to a call recording.
type Recording struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// Client talks to the external voice platform. The cached token is owned by
// the client instance; campaign mutations re-login before every attempt, so a
// stale token is never observable. Concurrent re-logins are redundant but
// harmless.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL, username, password string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: httpClient,
	}
}

// Login exchanges the configured credentials for a bearer token and caches it.
func (c *Client) Login() (string, error) {
	body, status, err := c.doRequest(http.MethodPost, "/login", map[string]any{
		"username": c.username,
		"password": c.password,
	}, false)
	if err != nil {
		return "", appErrors.NewAuth("%v", err)
	}
	if status < 200 || status >= 300 {
		return "", appErrors.NewAuth("status %d: %s", status, string(body))
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", appErrors.NewAuth("invalid login response: %v", err)
	}
	if resp.AccessToken == "" {
		return "", appErrors.NewAuth("access_token missing in login response")
	}

	c.mu.Lock()
	c.token = resp.AccessToken
	c.mu.Unlock()
	return resp.AccessToken, nil
}

// CreateCampaign mirrors a local campaign onto the platform. Single attempt,
// no retry; the caller owns the rollback decision.
func (c *Client) CreateCampaign(payload map[string]any) (map[string]any, error) {
	if _, err := c.Login(); err != nil {
		return nil, err
	}
	return c.syncRequest(http.MethodPost, "/create-campaign", payload)
}

// UpdateCampaign pushes updated campaign state. The platform keys off the id
// carried in the payload, which is the external id when one exists and the
// local id otherwise.
func (c *Client) UpdateCampaign(externalID string, payload map[string]any) (map[string]any, error) {
	if _, err := c.Login(); err != nil {
		return nil, err
	}
	if externalID != "" {
		// Set the id on a copy; the caller's map stays untouched.
		cloned := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			cloned[k] = v
		}
		cloned["id"] = externalID
		payload = cloned
	}
	return c.syncRequest(http.MethodPut, "/update-campaign", payload)
}

// CreateCall dispatches a single outbound call.
func (c *Client) CreateCall(payload map[string]any) (map[string]any, error) {
	if _, err := c.Login(); err != nil {
		return nil, err
	}
	return c.syncRequest(http.MethodPost, "/create-call", payload)
}

// ListCalls pages through the platform's call log for a campaign.
func (c *Client) ListCalls(campaignID, start, end string, pageSize int, cursor string) (*CallListPage, error) {
	if _, err := c.Login(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("campaign_id", campaignID)
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	body, status, err := c.doRequest(http.MethodGet, "/list-calls?"+q.Encode(), nil, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, appErrors.NewExternalSync(status, string(body))
	}

	var page CallListPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode list-calls response: %w", err)
	}
	return &page, nil
}

// RecordingURL fetches a signed recording link for a call.
func (c *Client) RecordingURL(campaignID, callID string) (*Recording, error) {
	if _, err := c.Login(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("campaign_id", campaignID)
	q.Set("call_id", callID)

	body, status, err := c.doRequest(http.MethodGet, "/call-recordings?"+q.Encode(), nil, true)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, appErrors.NewExternalSync(status, string(body))
	}

	var rec Recording
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode recording response: %w", err)
	}
	return &rec, nil
}

func (c *Client) syncRequest(method, path string, payload map[string]any) (map[string]any, error) {
	body, status, err := c.doRequest(method, path, payload, true)
	if err != nil {
		return nil, appErrors.NewExternalSync(0, err.Error())
	}
	if status < 200 || status >= 300 {
		return nil, appErrors.NewExternalSync(status, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return result, nil
}

func (c *Client) doRequest(method, path string, body any, authed bool) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		c.mu.Lock()
		token := c.token
		c.mu.Unlock()
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("external API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

var _ ClientInterface = (*Client)(nil)
