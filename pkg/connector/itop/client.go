package itop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/idbridge/pkg/clients"
	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
	"github.com/ajitpratap0/idbridge/pkg/metrics"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

// Operation verbs of the iTop REST/JSON API
const (
	OpListOperations = "list_operations"
	OpCreate         = "core/create"
	OpGet            = "core/get"
	OpUpdate         = "core/update"
	OpDelete         = "core/delete"
)

// ClassPerson is the iTop class persons are stored in
const ClassPerson = "Person"

// OutputFields is the projection requested for person reads and writes
const OutputFields = "id,name,first_name,email,phone,org_id,status,function"

// Change-tracking comments attached to writes
const (
	CommentCreate = "Created via MidPoint IGA"
	CommentUpdate = "Updated via MidPoint IGA"
	CommentDelete = "Deleted via MidPoint IGA"
)

// ErrorCode is the status code of an iTop response. Zero means success.
type ErrorCode int

// iTop REST API status codes
const (
	CodeOK                 ErrorCode = 0
	CodeUnauthorized       ErrorCode = 1
	CodeMissingVersion     ErrorCode = 2
	CodeMissingJSON        ErrorCode = 3
	CodeInvalidJSON        ErrorCode = 4
	CodeMissingAuthUser    ErrorCode = 5
	CodeMissingAuthPwd     ErrorCode = 6
	CodeUnsupportedVersion ErrorCode = 10
	CodeUnknownOperation   ErrorCode = 11
	CodeUnsafe             ErrorCode = 12
	CodeInternalError      ErrorCode = 100
)

var codeNames = map[ErrorCode]string{
	CodeOK:                 "ok",
	CodeUnauthorized:       "unauthorized",
	CodeMissingVersion:     "missing version",
	CodeMissingJSON:        "missing json_data",
	CodeInvalidJSON:        "invalid json_data",
	CodeMissingAuthUser:    "missing auth_user",
	CodeMissingAuthPwd:     "missing auth_pwd",
	CodeUnsupportedVersion: "unsupported version",
	CodeUnknownOperation:   "unknown operation",
	CodeUnsafe:             "unsafe operation",
	CodeInternalError:      "internal error",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "code " + strconv.Itoa(int(c))
}

// Request is the json_data envelope of one API call
type Request struct {
	Operation    string               `json:"operation"`
	Class        string               `json:"class,omitempty"`
	Key          interface{}          `json:"key,omitempty"`
	Fields       *models.PersonRecord `json:"fields,omitempty"`
	OutputFields string               `json:"output_fields,omitempty"`
	Limit        int                  `json:"limit,omitempty"`
	Simulate     *bool                `json:"simulate,omitempty"`
	Comment      string               `json:"comment,omitempty"`
}

// Object is one entry of Response.Objects
type Object struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Class   string              `json:"class"`
	Key     models.ID           `json:"key"`
	Fields  models.PersonRecord `json:"fields"`
}

// OperationInfo describes one verb returned by list_operations
type OperationInfo struct {
	Verb        string `json:"verb"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
}

// Response is the decoded body of an API call
type Response struct {
	Code       ErrorCode       `json:"code"`
	Message    string          `json:"message"`
	Objects    Objects         `json:"objects"`
	Operations []OperationInfo `json:"operations"`
}

// Objects maps composite keys to returned objects
type Objects map[string]Object

// UnmarshalJSON accepts an object map, null, or the [] PHP emits for an empty map
func (o *Objects) UnmarshalJSON(data []byte) error {
	if s := strings.TrimSpace(string(data)); s == "[]" || s == "null" {
		*o = nil
		return nil
	}
	m := make(map[string]Object)
	if err := jsonpool.Unmarshal(data, &m); err != nil {
		return err
	}
	*o = m
	return nil
}

// ObjectKey returns the composite key "<class>::<id>" used in Response.Objects
func ObjectKey(class string, id int64) string {
	return class + "::" + strconv.FormatInt(id, 10)
}

// Object returns the entry for class and id
func (r *Response) Object(class string, id int64) (Object, bool) {
	obj, ok := r.Objects[ObjectKey(class, id)]
	return obj, ok
}

// ObjectsOf returns the entries of class ordered by numeric id
func (r *Response) ObjectsOf(class string) []Object {
	prefix := class + "::"
	keys := make([]string, 0, len(r.Objects))
	for k := range r.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sortKeys(keys, prefix)

	objs := make([]Object, 0, len(keys))
	for _, k := range keys {
		objs = append(objs, r.Objects[k])
	}
	return objs
}

// Client speaks the iTop REST/JSON protocol: one multipart POST per call,
// credentials sent as form fields next to json_data.
type Client struct {
	endpoint string
	auth     config.AuthMode
	token    string
	user     string
	password string
	debug    bool
	http     *clients.HTTPClient
	logger   *zap.Logger
}

// NewClient creates a client for cfg. Either a token or a complete
// username/password pair is required.
func NewClient(cfg *config.Config, httpClient *clients.HTTPClient, logger *zap.Logger, debug bool) (*Client, error) {
	mode := cfg.AuthMode()
	if mode == config.AuthModeNone {
		return nil, errors.Config("either auth_token or both username and password must be provided", nil)
	}

	endpoint, err := url.Parse(cfg.BaseURL)
	if err != nil || endpoint.Host == "" {
		return nil, errors.Config(fmt.Sprintf("invalid baseUrl %q", cfg.BaseURL), err)
	}
	q := endpoint.Query()
	q.Set("version", cfg.APIVersion)
	endpoint.RawQuery = q.Encode()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint: endpoint.String(),
		auth:     mode,
		token:    cfg.AuthToken,
		user:     cfg.Username,
		password: cfg.Password,
		debug:    debug,
		http:     httpClient,
		logger:   logger.With(zap.String("component", "itop_client")),
	}, nil
}

// MakeRequest performs one API call. A non-zero response code is returned as
// an API error carrying the code and message; network failures and non-2xx
// statuses are returned as transport errors.
func (c *Client) MakeRequest(ctx context.Context, req Request) (*Response, error) {
	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)
	if err := jsonpool.MarshalToWriter(buf, req); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode request")
	}
	envelope := bytes.TrimRight(buf.Bytes(), "\n")

	body := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(body)
	contentType, err := c.form(body, envelope)
	if err != nil {
		return nil, err
	}

	if c.debug {
		c.logger.Debug("iTop API request",
			zap.String("url", c.endpoint),
			zap.String("operation", req.Operation),
			zap.ByteString("json_data", envelope),
			zap.String("auth_mode", string(c.auth)),
		)
	}

	resp, err := c.http.Post(ctx, c.endpoint, body, map[string]string{
		"Content-Type": contentType,
		"Accept":       "application/json",
	})
	if err != nil {
		return nil, errors.Transport(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Transport(resp.StatusCode,
			fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	var out Response
	if err := jsonpool.Decode(resp.Body, &out); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAPI, "failed to decode response")
	}

	if c.debug {
		c.logger.Debug("iTop API response",
			zap.Int("code", int(out.Code)),
			zap.String("message", out.Message),
			zap.Int("objects", len(out.Objects)),
		)
	}

	if out.Code != CodeOK {
		metrics.BackendErrors.WithLabelValues(Name, strconv.Itoa(int(out.Code))).Inc()
		return nil, errors.API(int(out.Code), fmt.Sprintf("%s: %s", out.Code, out.Message)).
			WithDetail("operation", req.Operation)
	}

	return &out, nil
}

// form writes the multipart body into buf: credentials for the configured
// mode, then json_data. It returns the content type.
func (c *Client) form(buf *bytes.Buffer, envelope []byte) (string, error) {
	w := multipart.NewWriter(buf)

	fields := make([][2]string, 0, 3)
	switch c.auth {
	case config.AuthModeToken:
		fields = append(fields, [2]string{"auth_token", c.token})
	case config.AuthModePassword:
		fields = append(fields, [2]string{"auth_user", c.user}, [2]string{"auth_pwd", c.password})
	}
	fields = append(fields, [2]string{"json_data", string(envelope)})

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to build form")
		}
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to build form")
	}

	return w.FormDataContentType(), nil
}
