package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/handyman-api/internal/config"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// Client implements Provider with the GoTrue SDK. Every call sends the
// project's anon key; user-scoped calls authorize with the caller's token.
type Client struct {
	api       gotrue.Client
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	logger    *zerolog.Logger
}

var _ Provider = (*Client)(nil)

// NewClient builds a client for cfg.Auth. Outgoing calls are recorded as
// New Relic external segments when the request context carries a transaction.
func NewClient(cfg *config.AuthConfig, logger *zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg.ProviderURL, cfg.AnonKey, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: newrelic.NewRoundTripper(http.DefaultTransport),
	}, logger)
}

// NewClientWithHTTP builds a client whose calls go through httpClient's
// transport and timeout.
func NewClientWithHTTP(providerURL, anonKey string, httpClient *http.Client, logger *zerolog.Logger) *Client {
	base := strings.TrimRight(providerURL, "/")
	if !strings.HasSuffix(base, "/auth/v1") {
		base += "/auth/v1"
	}

	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{
		api:       gotrue.New("", anonKey).WithCustomGoTrueURL(base),
		baseURL:   base,
		timeout:   httpClient.Timeout,
		transport: transport,
		logger:    logger,
	}
}

// callOptions adjust the HTTP requests of a single SDK call.
type callOptions struct {
	accessToken string
	query       url.Values
}

// with returns an SDK client for one call: its requests carry ctx (the SDK
// builds them without one) and, when given, the caller's token and extra
// query parameters.
func (c *Client) with(ctx context.Context, opts callOptions) gotrue.Client {
	api := c.api.WithClient(http.Client{
		Timeout: c.timeout,
		Transport: &requestTransport{
			ctx:   ctx,
			query: opts.query,
			next:  c.transport,
		},
	})
	if opts.accessToken != "" {
		api = api.WithToken(opts.accessToken)
	}
	return api
}

type requestTransport struct {
	ctx   context.Context
	query url.Values
	next  http.RoundTripper
}

func (t *requestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(t.ctx)
	if len(t.query) > 0 {
		q := out.URL.Query()
		for name, values := range t.query {
			for _, v := range values {
				q.Add(name, v)
			}
		}
		out.URL.RawQuery = q.Encode()
	}
	return t.next.RoundTrip(out)
}

func (c *Client) ResolveUser(ctx context.Context, accessToken string) (*model.User, error) {
	start := time.Now()

	resp, err := c.with(ctx, callOptions{accessToken: accessToken}).GetUser()
	if err = c.finish("resolve_user", start, err); err != nil {
		return nil, err
	}
	return toUser(resp.User), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.User, *model.Session, error) {
	start := time.Now()

	resp, err := c.with(ctx, callOptions{}).Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err = c.finish("sign_up", start, err); err != nil {
		return nil, nil, err
	}

	// With autoconfirm the provider answers with a session; otherwise it
	// answers with the bare user awaiting confirmation.
	if resp.Session.AccessToken != "" {
		session := toSession(resp.Session)
		return session.User, session, nil
	}
	return toUser(resp.User), nil, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	start := time.Now()

	resp, err := c.with(ctx, callOptions{}).Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err = c.finish("sign_in", start, err); err != nil {
		return nil, err
	}
	return toSession(resp.Session), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	start := time.Now()

	err := c.with(ctx, callOptions{accessToken: accessToken}).Logout()
	return c.finish("sign_out", start, err)
}

// SendResetEmail passes redirectURL as the redirect_to query parameter,
// which is where GoTrue reads it from.
func (c *Client) SendResetEmail(ctx context.Context, email, redirectURL string) error {
	start := time.Now()

	opts := callOptions{}
	if redirectURL != "" {
		opts.query = url.Values{"redirect_to": {redirectURL}}
	}

	err := c.with(ctx, opts).Recover(types.RecoverRequest{Email: email})
	return c.finish("send_reset_email", start, err)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) (*model.User, error) {
	start := time.Now()

	resp, err := c.with(ctx, callOptions{accessToken: accessToken}).UpdateUser(types.UpdateUserRequest{
		Password: &password,
	})
	if err = c.finish("update_password", start, err); err != nil {
		return nil, err
	}
	return toUser(resp.User), nil
}

func (c *Client) UpdateUserMetadata(ctx context.Context, accessToken string, data map[string]any) (*model.User, error) {
	start := time.Now()

	resp, err := c.with(ctx, callOptions{accessToken: accessToken}).UpdateUser(types.UpdateUserRequest{
		Data: data,
	})
	if err = c.finish("update_user_metadata", start, err); err != nil {
		return nil, err
	}
	return toUser(resp.User), nil
}

// finish logs the call and converts an SDK error.
func (c *Client) finish(operation string, start time.Time, err error) error {
	err = convertError(operation, err)

	c.logger.Debug().
		Err(err).
		Str("function", "identity."+operation).
		Dur("duration", time.Since(start)).
		Msg("identity provider call")

	return err
}

// The SDK reports a non-2xx answer as "response status code <n>: <body>".
var statusErrorPattern = regexp.MustCompile(`(?s)^response status code (\d{3})(?:: (.*))?$`)

// convertError turns an SDK status error into an *Error. Anything else
// (transport, timeout, decoding) is returned wrapped and is never an *Error.
func convertError(operation string, err error) error {
	if err == nil {
		return nil
	}

	m := statusErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("identity provider %s: %w", operation, err)
	}

	status, _ := strconv.Atoi(m[1])
	return parseError(status, []byte(m[2]))
}

// errorBody covers both GoTrue error shapes:
//
//	{"code":422,"error_code":"user_already_exists","msg":"User already registered"}
//	{"error":"invalid_grant","error_description":"Invalid login credentials"}
type errorBody struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		e.Message = http.StatusText(status)
		return e
	}

	e.ErrorCode = firstNonEmpty(parsed.ErrorCode, parsed.Error)
	e.Message = firstNonEmpty(parsed.Msg, parsed.ErrorDescription, parsed.Message, parsed.Error, http.StatusText(status))
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toUser(u types.User) *model.User {
	return &model.User{
		ID:               u.ID.String(),
		Aud:              u.Aud,
		Role:             u.Role,
		Email:            u.Email,
		Phone:            u.Phone,
		EmailConfirmedAt: u.EmailConfirmedAt,
		ConfirmedAt:      timePtr(u.ConfirmedAt),
		LastSignInAt:     u.LastSignInAt,
		AppMetadata:      u.AppMetadata,
		UserMetadata:     u.UserMetadata,
		CreatedAt:        timePtr(u.CreatedAt),
		UpdatedAt:        timePtr(u.UpdatedAt),
	}
}

func toSession(s types.Session) *model.Session {
	return &model.Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
		User:         toUser(s.User),
	}
}

// timePtr maps the SDK's zero time to an absent value.
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
