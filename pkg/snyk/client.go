package snyk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unitysipu/snyk-migrate-to-github-app/pkg/logger"
	"golang.org/x/oauth2"
)

const (
	restAPIVersion   = "2024-05-08"
	hiddenAPIVersion = "2023-04-02~experimental"

	// pageLimit is the fixed page size for the targets listing.
	pageLimit = 100

	// DefaultTimeout bounds every single API request. There are no retries;
	// exceeding it aborts the run.
	DefaultTimeout = 90 * time.Second
)

// Client talks to the Snyk v1, REST and hidden APIs for one tenant. All
// calls are sequential and blocking; a read failure is fatal to the caller.
type Client struct {
	endpoints Endpoints
	http      *http.Client
}

// ClientConfig configures a Snyk API client.
type ClientConfig struct {
	// Token is a Snyk API token with admin access to the organizations
	// being migrated.
	Token string
	// Tenant selects the regional deployment ("", "au" or "eu").
	Tenant string
	// Timeout bounds each request; DefaultTimeout when zero.
	Timeout time.Duration
	// Endpoints overrides the tenant-derived base URLs. Meant for pointing
	// the client at a test server.
	Endpoints *Endpoints
}

// NewClient creates a Snyk API client for the configured tenant.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("snyk token is required")
	}

	endpoints, err := ResolveTenant(cfg.Tenant)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoints != nil {
		endpoints = *cfg.Endpoints
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Snyk uses the "token <value>" authorization scheme rather than Bearer.
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "token",
	})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = timeout

	logger.Debug("Snyk client configured",
		"v1_base", endpoints.V1Base,
		"rest_base", endpoints.RESTBase,
		"hidden_base", endpoints.HiddenBase)

	return &Client{
		endpoints: endpoints,
		http:      httpClient,
	}, nil
}

// Organizations retrieves every organization visible to the token.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var response orgsResponse
	if err := c.get(ctx, c.endpoints.V1Base+"/orgs", &response); err != nil {
		return nil, err
	}

	if len(response.Orgs) == 0 {
		return nil, ErrNoOrganizations
	}

	logger.Info("Found group organizations", "count", len(response.Orgs))
	return response.Orgs, nil
}

// OrgIntegrations retrieves the integration map for one organization.
func (c *Client) OrgIntegrations(ctx context.Context, orgID string) (Integrations, error) {
	var integrations Integrations
	url := fmt.Sprintf("%s/org/%s/integrations", c.endpoints.V1Base, orgID)
	if err := c.get(ctx, url, &integrations); err != nil {
		return nil, err
	}

	logger.Debug("Found integrations for organization", "org_id", orgID, "integrations", integrations)
	return integrations, nil
}

// TargetsByOrigin retrieves all targets of one origin in an organization,
// following the cursor in links.next until the listing is exhausted. Pages
// are concatenated in server-returned order.
func (c *Client) TargetsByOrigin(ctx context.Context, orgID, origin string) ([]Target, error) {
	logger.Debug("Collecting targets", "org_id", orgID, "origin", origin)

	params := url.Values{}
	params.Set("version", restAPIVersion)
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("source_types", origin)
	params.Set("exclude_empty", "false")

	next := fmt.Sprintf("/orgs/%s/targets?%s", orgID, params.Encode())

	var targets []Target
	for {
		var page targetsPage
		if err := c.get(ctx, c.restURL(next), &page); err != nil {
			return nil, err
		}
		targets = append(targets, page.Data...)

		if page.Links.Next == "" {
			break
		}
		next = page.Links.Next
	}

	logger.Debug("Collected targets", "org_id", orgID, "origin", origin, "count", len(targets))
	return targets, nil
}

// MigrateTarget moves one target to the github-cloud-app integration via the
// hidden API. It returns the response status and body so the caller can
// classify the result; only transport failures surface as errors.
func (c *Client) MigrateTarget(ctx context.Context, orgID, targetID string) (int, string, error) {
	url := fmt.Sprintf("%s/orgs/%s/targets/%s?version=%s",
		c.endpoints.HiddenBase, orgID, targetID, hiddenAPIVersion)

	body, err := json.Marshal(migrateRequest{
		Data: migrateRequestData{
			ID:         targetID,
			Attributes: migrateRequestAttributes{SourceType: OriginGitHubCloudApp},
		},
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to encode migration request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to build migration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", &APIError{Method: http.MethodPatch, URL: url, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", &APIError{Method: http.MethodPatch, URL: url, Message: err.Error(), Err: err}
	}

	return resp.StatusCode, string(respBody), nil
}

type migrateRequest struct {
	Data migrateRequestData `json:"data"`
}

type migrateRequestData struct {
	ID         string                   `json:"id"`
	Attributes migrateRequestAttributes `json:"attributes"`
}

type migrateRequestAttributes struct {
	SourceType string `json:"source_type"`
}

// restURL re-roots a cursor path from links.next onto the REST base URL.
func (c *Client) restURL(next string) string {
	return c.endpoints.RESTBase + "/" + strings.TrimPrefix(next, "/")
}

// get issues a single GET request and decodes the JSON response into out.
// Any transport failure or non-2xx status yields an APIError.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: http.MethodGet, URL: url, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Method: http.MethodGet, URL: url, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			URL:        url,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Method: http.MethodGet, URL: url, Message: fmt.Sprintf("failed to decode response: %v", err), Err: err}
	}

	return nil
}
