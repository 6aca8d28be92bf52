package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ProviderClient asks the identity provider who owns a token
// (GET {baseURL}/auth/v1/user).
type ProviderClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewProviderClient(baseURL, apiKey string, logger *zap.Logger) *ProviderClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
	}
	return &ProviderClient{httpClient: client, logger: logger}
}

var _ Verifier = (*ProviderClient)(nil)

func (c *ProviderClient) VerifyIdentity(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var user providerUser
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		c.logger.Error("Identity provider call failed", zap.Error(err))
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.IsError():
		c.logger.Warn("Identity provider returned an error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode())
	}

	if user.ID == "" {
		return nil, fmt.Errorf("%w: provider returned no user", ErrInvalidToken)
	}
	return &Identity{ExternalID: user.ID, Email: user.Email}, nil
}
