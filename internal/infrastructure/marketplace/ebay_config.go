package marketplace

import "errors"

// EbayConfig holds configuration for the eBay Sell Fulfillment API.
type EbayConfig struct {
	// ClientID is the OAuth application client ID
	ClientID string
	// ClientSecret is the OAuth application client secret
	ClientSecret string
	// RefreshToken is the long-lived user refresh token used to mint
	// short-lived access tokens
	RefreshToken string
	// Environment selects the API hosts: "sandbox" or "production"
	Environment string
	// APIBaseURL overrides the environment-derived API base URL (tests)
	APIBaseURL string
	// AuthBaseURL overrides the environment-derived OAuth base URL (tests)
	AuthBaseURL string
	// PageSize is the number of orders requested per page
	PageSize int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// EbayProductionAPIURL is the production Sell API endpoint
	EbayProductionAPIURL = "https://api.ebay.com"
	// EbaySandboxAPIURL is the sandbox Sell API endpoint
	EbaySandboxAPIURL = "https://api.sandbox.ebay.com"

	// EnvironmentProduction selects the production hosts
	EnvironmentProduction = "production"
	// EnvironmentSandbox selects the sandbox hosts
	EnvironmentSandbox = "sandbox"
)

// Errors for eBay configuration
var (
	ErrEbayConfigMissingClientID     = errors.New("ebay: client ID is required")
	ErrEbayConfigMissingClientSecret = errors.New("ebay: client secret is required")
	ErrEbayConfigMissingRefreshToken = errors.New("ebay: refresh token is required")
	ErrEbayConfigInvalidEnvironment  = errors.New("ebay: environment must be sandbox or production")
)

// NewEbayConfig creates an eBay configuration with defaults for the given
// environment.
func NewEbayConfig(clientID, clientSecret, refreshToken, environment string) *EbayConfig {
	return &EbayConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RefreshToken:   refreshToken,
		Environment:    environment,
		PageSize:       50,
		TimeoutSeconds: 30,
	}
}

// Validate validates the eBay configuration and fills URL defaults.
func (c *EbayConfig) Validate() error {
	if c.ClientID == "" {
		return ErrEbayConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrEbayConfigMissingClientSecret
	}
	if c.RefreshToken == "" {
		return ErrEbayConfigMissingRefreshToken
	}
	switch c.Environment {
	case EnvironmentSandbox, EnvironmentProduction:
	default:
		return ErrEbayConfigInvalidEnvironment
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = c.defaultBaseURL()
	}
	if c.AuthBaseURL == "" {
		c.AuthBaseURL = c.defaultBaseURL()
	}
	if c.PageSize < 1 || c.PageSize > 200 {
		c.PageSize = 50
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

func (c *EbayConfig) defaultBaseURL() string {
	if c.Environment == EnvironmentSandbox {
		return EbaySandboxAPIURL
	}
	return EbayProductionAPIURL
}
