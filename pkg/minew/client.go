package minew

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the default Minew cloud API base URL.
	DefaultBaseURL = "https://cloud.minewtag.com/apis"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies this client to the platform.
	DefaultUserAgent = "minew-go/1.0"
)

// loginPath is the only endpoint that takes credentials instead of a token.
const loginPath = "/action/login"

// Client is the Minew cloud API client. It is safe for concurrent use.
type Client struct {
	// Store provides store management operations.
	Store *StoreService

	// Gateway provides gateway management operations.
	Gateway *GatewayService

	// Label provides label operations.
	Label *LabelService

	// Template provides display template operations.
	Template *TemplateService

	// Data provides product data operations.
	Data *DataService

	config *clientConfig
	http   *httpClient

	mu       sync.Mutex
	token    string
	loggedIn bool
}

// clientConfig holds the client configuration.
type clientConfig struct {
	username   string
	password   string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	timeout    time.Duration
	token      string
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the API, for deployments hosted on
// a regional or self-managed instance of the platform.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithToken seeds a previously issued session token. The client skips the
// login round-trip for as long as the token is accepted.
func WithToken(token string) Option {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// NewClient creates a new Minew cloud API client.
//
// Credentials are the platform account username and password. The password
// is hashed before it leaves the process. NewClient performs no network
// traffic: the client logs in on the first API call, or when Login is
// called explicitly.
//
// Example:
//
//	client, err := minew.NewClient("username", "password")
//	client, err := minew.NewClient("username", "password", minew.WithTimeout(30*time.Second))
func NewClient(username, password string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		username:  username,
		password:  password,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// A seeded token can stand in for credentials until it expires.
	if cfg.token == "" {
		if cfg.username == "" {
			return nil, validationErrorf("username is required")
		}
		if cfg.password == "" {
			return nil, validationErrorf("password is required")
		}
	}
	if cfg.baseURL == "" {
		return nil, validationErrorf("base URL is required")
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
		token:  cfg.token,
	}

	// Initialize services
	c.Store = newStoreService(c)
	c.Gateway = newGatewayService(c)
	c.Label = newLabelService(c)
	c.Template = newTemplateService(c)
	c.Data = newDataService(c)

	return c, nil
}

// Username returns the configured account name.
func (c *Client) Username() string {
	return c.config.username
}

// BaseURL returns the base URL requests are sent to, with any trailing
// slash removed.
func (c *Client) BaseURL() string {
	return c.http.baseURL
}

// Token returns the current session token, or the empty string when the
// client has not logged in yet.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login authenticates with the platform and stores the session token.
//
// Calling Login is optional: any API call logs in automatically when no
// token is held. An explicit call verifies credentials up front and
// refreshes the token after the platform rejects a stale one.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

// loginLocked performs the credential exchange. The caller holds c.mu.
func (c *Client) loginLocked(ctx context.Context) error {
	if c.config.username == "" || c.config.password == "" {
		return validationErrorf("username and password are required to log in")
	}

	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: c.config.username,
		Password: hashPassword(c.config.password),
	}

	// A missing token field is stored as the empty string, matching how
	// the platform treats accounts without session support.
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	if err := c.http.request(ctx, http.MethodPost, loginPath, nil, "", body, &resp); err != nil {
		if e, ok := AsError(err); ok && !e.IsConnection() {
			return &Error{
				Kind:       ErrKindAuth,
				Code:       e.Code,
				Message:    "login failed: " + e.Message,
				HTTPStatus: e.HTTPStatus,
			}
		}
		return err
	}

	c.token = resp.Data.Token
	c.loggedIn = true
	return nil
}

// ensureToken returns the session token, logging in first when the client
// holds none. Concurrent callers share a single login attempt.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" && !c.loggedIn {
		if err := c.loginLocked(ctx); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

// get performs an authenticated GET request.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}
	return c.http.request(ctx, http.MethodGet, path, query, token, nil, result)
}

// post performs an authenticated POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}
	return c.http.request(ctx, http.MethodPost, path, nil, token, body, result)
}

// put performs an authenticated PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, result any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}
	return c.http.request(ctx, http.MethodPut, path, nil, token, body, result)
}

// hashPassword hashes the account password the way the platform login
// endpoint expects it, as hex-encoded MD5.
func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
