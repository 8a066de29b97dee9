package oauth

import (
	"context"
	"fmt"
	"time"

	"travel-advisory-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// SendScopes are the Gmail scopes the notifier needs
var SendScopes = []string{gmail.GmailSendScope}

// GmailOAuth handles OAuth authentication with Gmail
type GmailOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGmailOAuth creates a new Gmail OAuth handler for sending mail
func NewGmailOAuth(clientID, clientSecret, refreshToken string, logger logger.Logger) *GmailOAuth {
	return &GmailOAuth{
		config:       NewSendConfig(clientID, clientSecret, ""),
		refreshToken: refreshToken,
		logger:       logger,
	}
}

// NewSendConfig builds the OAuth client config with the send scope
func NewSendConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       SendScopes,
	}
}

// GetTokenSource returns a token source that can be used with Gmail API
func (o *GmailOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return o.config.TokenSource(ctx, token)
}

// Verify fetches one access token so bad credentials show up at startup
func (o *GmailOAuth) Verify(ctx context.Context) error {
	if _, err := o.GetTokenSource(ctx).Token(); err != nil {
		return fmt.Errorf("failed to refresh gmail token: %w", err)
	}
	o.logger.Info("Gmail credentials verified")
	return nil
}
