package clients

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/errors"
)

// OAuth2Config configures the OAuth2 resource owner password grant
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Username     string
	Password     string
	Scopes       []string
}

// OAuth2ConfigFrom extracts the OAuth2 settings from a backend configuration
func OAuth2ConfigFrom(cfg *config.Config) *OAuth2Config {
	return &OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Username:     cfg.Username,
		Password:     cfg.Password,
	}
}

// passwordSource performs a password grant on every Token call. It is always
// wrapped in oauth2.ReuseTokenSource, which caches the token until expiry.
type passwordSource struct {
	ctx    context.Context
	conf   *oauth2.Config
	user   string
	pass   string
	logger *zap.Logger
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	s.logger.Debug("requesting OAuth2 token", zap.String("token_url", s.conf.Endpoint.TokenURL))

	tok, err := s.conf.PasswordCredentialsToken(s.ctx, s.user, s.pass)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "OAuth2 token request failed")
	}
	return tok, nil
}

// PasswordTokenSource returns a caching token source for oc. No request is
// made until the first token is needed. Token requests go through the
// client's transport.
func (c *HTTPClient) PasswordTokenSource(oc *OAuth2Config) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     oc.ClientID,
		ClientSecret: oc.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  oc.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: oc.Scopes,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.StandardClient())
	return oauth2.ReuseTokenSource(nil, &passwordSource{
		ctx:    ctx,
		conf:   conf,
		user:   oc.Username,
		pass:   oc.Password,
		logger: c.logger,
	})
}

// Authorize sets the bearer token from ts on req
func Authorize(req *http.Request, ts oauth2.TokenSource) error {
	tok, err := ts.Token()
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)
	return nil
}
