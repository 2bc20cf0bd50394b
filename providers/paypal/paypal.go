package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/evscomercial/storefront-backend/providers"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/monitoring/metrics"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"

	// tokens are dropped a minute before PayPal expires them
	tokenExpiryMargin = 60 * time.Second
)

type PayPalConfig struct {
	ProviderName string `mapstructure:"PAYPAL_PROVIDER_NAME"`
	ClientID     string `mapstructure:"PAYPAL_CLIENT_ID"`
	SecretKey    string `mapstructure:"PAYPAL_SECRET_KEY"`
	BaseURL      string `mapstructure:"PAYPAL_BASE_URL"`
	PayeeEmail   string `mapstructure:"PAYPAL_PAYEE_EMAIL"`
	BrandName    string `mapstructure:"PAYPAL_BRAND_NAME"`
}

func LoadConfig(path string) (*PayPalConfig, error) {
	var c PayPalConfig
	if err := utils.LoadCustomConfig(path, &c); err != nil {
		return nil, err
	}
	if c.ProviderName == "" {
		c.ProviderName = providers.PayPal
	}
	if c.BaseURL == "" {
		c.BaseURL = SandboxBaseURL
	}
	if c.BrandName == "" {
		c.BrandName = "EVS Comercial"
	}
	return &c, nil
}

// TokenStore caches gateway access tokens between requests and, with Redis,
// between instances.
type TokenStore interface {
	GetToken(ctx context.Context, key string) (string, bool)
	SetToken(ctx context.Context, key, token string, ttl time.Duration) error
}

type PayPalProvider struct {
	providers.BaseProvider
	config *PayPalConfig
	tokens TokenStore
	mu     sync.Mutex
}

func NewPayPalProvider(c *PayPalConfig, tokens TokenStore, logger *logging.Logger) *PayPalProvider {
	return &PayPalProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.ProviderName,
			BaseURL: c.BaseURL,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: c,
		tokens: tokens,
	}
}

func (p *PayPalProvider) PayeeEmail() string { return p.config.PayeeEmail }
func (p *PayPalProvider) BrandName() string  { return p.config.BrandName }

func (p *PayPalProvider) tokenKey() string {
	return "paypal:token:" + p.config.ClientID
}

// AccessToken returns a cached bearer token or obtains a new one with the
// client-credentials grant.
func (p *PayPalProvider) AccessToken(ctx context.Context) (string, error) {
	if p.config.ClientID == "" || p.config.SecretKey == "" {
		return "", ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token, ok := p.tokens.GetToken(ctx, p.tokenKey()); ok {
		return token, nil
	}

	endpoint, err := p.endpoint("/v1/oauth2/token")
	if err != nil {
		return "", err
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(p.config.ClientID + ":" + p.config.SecretKey))
	headers := map[string]string{"Authorization": "Basic " + credentials}
	form := url.Values{"grant_type": {"client_credentials"}}

	start := time.Now()
	resp, err := p.MakeRequest(ctx, http.MethodPost, endpoint, form, headers)
	metrics.ObserveGatewayRequest("oauth_token", time.Since(start).Seconds())
	if err != nil {
		return "", &GatewayError{Err: fmt.Errorf("paypal token request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", p.readError(resp)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("error parsing token: %w", err)
	}
	if token.AccessToken == "" {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: "empty access token"}
	}

	ttl := time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin
	if err := p.tokens.SetToken(ctx, p.tokenKey(), token.AccessToken, ttl); err != nil {
		p.Logger.Warn(fmt.Sprintf("could not cache paypal token: %v", err))
	}

	return token.AccessToken, nil
}

// CreateOrder opens a CAPTURE order and returns the link the customer must
// follow to approve it.
func (p *PayPalProvider) CreateOrder(ctx context.Context, request OrderRequest) (*Order, error) {
	payload := orderPayload{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: request.ReferenceID,
			Description: request.Description,
			Amount: Money{
				CurrencyCode: "USD",
				Value:        request.AmountUSD.StringFixed(2),
			},
		}},
		ApplicationContext: &applicationContext{
			ReturnURL:  request.ReturnURL,
			CancelURL:  request.CancelURL,
			BrandName:  request.BrandName,
			UserAction: "PAY_NOW",
		},
	}
	if request.PayeeEmail != "" {
		payload.PurchaseUnits[0].Payee = &payee{EmailAddress: request.PayeeEmail}
	}

	var response orderResponse
	if err := p.call(ctx, "create_order", http.MethodPost, "/v2/checkout/orders", payload, nil, &response); err != nil {
		return nil, err
	}

	order := &Order{ID: response.ID, Status: response.Status}
	for _, link := range response.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			order.ApprovalURL = link.Href
			break
		}
	}
	if order.ApprovalURL == "" {
		return nil, &GatewayError{Err: ErrApprovalLinkMissing}
	}

	return order, nil
}

// CaptureOrder collects the funds of an order the customer approved.
func (p *PayPalProvider) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"

	var response orderResponse
	if err := p.call(ctx, "capture_order", http.MethodPost, path, struct{}{}, nil, &response); err != nil {
		return nil, err
	}
	return response.capture(), nil
}

// GetOrder reads an order back, including the capture PayPal recorded for it
// if there is one.
func (p *PayPalProvider) GetOrder(ctx context.Context, orderID string) (*Capture, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID)

	var response orderResponse
	if err := p.call(ctx, "get_order", http.MethodGet, path, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.capture(), nil
}

// CreatePayout sends money to a PayPal account. SenderBatchID doubles as the
// request id so a repeated call cannot pay twice.
func (p *PayPalProvider) CreatePayout(ctx context.Context, request PayoutRequest) (*Payout, error) {
	payload := payoutPayload{
		SenderBatchHeader: senderBatchHeader{
			SenderBatchID: request.SenderBatchID,
			EmailSubject:  request.EmailSubject,
			EmailMessage:  request.EmailMessage,
		},
		Items: []payoutItem{{
			RecipientType: "EMAIL",
			Amount: payoutAmount{
				Value:    request.AmountUSD.StringFixed(2),
				Currency: "USD",
			},
			Receiver:     request.Receiver,
			Note:         request.Note,
			SenderItemID: request.SenderBatchID,
		}},
	}

	headers := map[string]string{"PayPal-Request-Id": request.SenderBatchID}

	var response payoutResponse
	if err := p.call(ctx, "create_payout", http.MethodPost, "/v1/payments/payouts", payload, headers, &response); err != nil {
		return nil, err
	}

	return &Payout{
		BatchID: response.BatchHeader.PayoutBatchID,
		Status:  response.BatchHeader.BatchStatus,
	}, nil
}

func (p *PayPalProvider) call(ctx context.Context, operation, method, path string, body interface{}, extraHeaders map[string]string, out interface{}) error {
	token, err := p.AccessToken(ctx)
	if err != nil {
		return err
	}

	endpoint, err := p.endpoint(path)
	if err != nil {
		return err
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	for k, v := range extraHeaders {
		headers[k] = v
	}

	start := time.Now()
	resp, err := p.MakeRequest(ctx, method, endpoint, body, headers)
	metrics.ObserveGatewayRequest(operation, time.Since(start).Seconds())
	if err != nil {
		return &GatewayError{Err: fmt.Errorf("paypal %s: %w", operation, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing %s response: %w", operation, err)
	}
	return nil
}

func (p *PayPalProvider) endpoint(path string) (string, error) {
	base, err := url.Parse(strings.TrimRight(p.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += path
	return base.String(), nil
}

func (p *PayPalProvider) readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorResponse
	_ = json.Unmarshal(raw, &body)
	gerr := newGatewayError(resp.StatusCode, body)

	p.Logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"url":      resp.Request.URL.String(),
		"debug_id": gerr.DebugID,
		"name":     gerr.Name,
	}).Error("paypal request failed")

	return gerr
}
