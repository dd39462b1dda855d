package servicenow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ajitpratap0/idbridge/pkg/clients"
	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
	"github.com/ajitpratap0/idbridge/pkg/metrics"
)

// TablePath is the Table API path of the user table
const TablePath = "/api/now/table/sys_user"

// TokenPath is the OAuth2 token endpoint used when no tokenUrl is configured
const TokenPath = "/oauth_token.do"

// UserFields is the projection requested for every read and write
const UserFields = "sys_id,user_name,name,first_name,last_name,email,phone,mobile_phone,title,department,company,employee_number,active"

// APIError is the error body of a failed Table API call
type APIError struct {
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
	Status string `json:"status"`
}

// Client calls the ServiceNow Table API. Requests authenticate with an
// OAuth2 bearer token when a client id is configured, else with basic auth.
type Client struct {
	baseURL  string
	user     string
	password string
	tokens   oauth2.TokenSource
	debug    bool
	http     *clients.HTTPClient
	logger   *zap.Logger
}

// NewClient creates a Table API client for cfg. A username and password are
// required in both auth modes; a bare auth token is not supported.
func NewClient(cfg *config.Config, httpClient *clients.HTTPClient, logger *zap.Logger, debug bool) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.Config("servicenow requires username and password (auth_token is not supported)", nil)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, errors.Config(fmt.Sprintf("invalid baseUrl %q", cfg.BaseURL), err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:  base.String(),
		user:     cfg.Username,
		password: cfg.Password,
		debug:    debug,
		http:     httpClient,
		logger:   logger.With(zap.String("component", "servicenow_client")),
	}

	if cfg.HasOAuth2() {
		oc := clients.OAuth2ConfigFrom(cfg)
		if oc.TokenURL == "" {
			oc.TokenURL = c.baseURL + TokenPath
		}
		c.tokens = httpClient.PasswordTokenSource(oc)
	}

	return c, nil
}

// AuthMode returns "oauth2" or "basic"
func (c *Client) AuthMode() string {
	if c.tokens != nil {
		return "oauth2"
	}
	return "basic"
}

// Do performs one Table API call against path (relative to the user table)
// and decodes the "result" member of a 2xx response into out. out may be nil.
// Non-2xx responses are returned as API errors carrying the HTTP status;
// network failures as transport errors.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + TablePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		if payload, err = jsonpool.Marshal(body); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	if c.debug {
		c.logger.Debug("ServiceNow API request",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.ByteString("body", payload),
			zap.String("auth_mode", c.AuthMode()),
		)
	}

	headers := map[string]string{"Accept": "application/json"}
	if body != nil {
		headers["Content-Type"] = "application/json"
	}
	req, err := c.http.NewRequest(ctx, method, endpoint, reader, headers)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to build request")
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Transport(0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Transport(resp.StatusCode, err)
	}

	if c.debug {
		c.logger.Debug("ServiceNow API response",
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(data)),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendErrors.WithLabelValues(Name, strconv.Itoa(resp.StatusCode)).Inc()
		return errors.API(resp.StatusCode, errorMessage(resp.Status, data)).WithDetail("method", method)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var envelope struct {
		Result jsonpool.RawMessage `json:"result"`
	}
	if err := jsonpool.Unmarshal(data, &envelope); err != nil {
		return errors.Wrap(err, errors.ErrorTypeAPI, "failed to decode response")
	}
	if len(envelope.Result) == 0 {
		return errors.New(errors.ErrorTypeAPI, "response has no result")
	}
	if err := jsonpool.Unmarshal(envelope.Result, out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeAPI, "failed to decode result")
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		req.SetBasicAuth(c.user, c.password)
		return nil
	}
	return clients.Authorize(req, c.tokens)
}

// errorMessage extracts the Table API error message, falling back to the
// HTTP status and a body snippet
func errorMessage(status string, data []byte) string {
	var apiErr APIError
	if err := jsonpool.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		if apiErr.Error.Detail != "" {
			return fmt.Sprintf("%s: %s (%s)", status, apiErr.Error.Message, apiErr.Error.Detail)
		}
		return fmt.Sprintf("%s: %s", status, apiErr.Error.Message)
	}

	snippet := strings.TrimSpace(string(data))
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	if snippet == "" {
		return status
	}
	return fmt.Sprintf("%s: %s", status, snippet)
}
