package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tuinue/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ResponseCodeSuccess is the Daraja sentinel for an accepted STK push.
// The immediate response only means the prompt was sent; the platform
// treats it as authoritative and does not process callbacks.
const ResponseCodeSuccess = "0"

const timestampFormat = "20060102150405"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type STKPushRequest struct {
	BusinessShortCode string  `json:"BusinessShortCode"`
	Password          string  `json:"Password"`
	Timestamp         string  `json:"Timestamp"`
	TransactionType   string  `json:"TransactionType"`
	Amount            float64 `json:"Amount"`
	PartyA            string  `json:"PartyA"`
	PartyB            string  `json:"PartyB"`
	PhoneNumber       string  `json:"PhoneNumber"`
	CallBackURL       string  `json:"CallBackURL"`
	AccountReference  string  `json:"AccountReference"`
	TransactionDesc   string  `json:"TransactionDesc"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

func (r *STKPushResponse) Accepted() bool {
	return r != nil && r.ResponseCode == ResponseCodeSuccess
}

type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger

	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      string
	passkey        string
	callbackURL    string

	now func() time.Time
}

func NewClient(config *types.Config, logger *logrus.Logger) *Client {
	st := gobreaker.Settings{
		Name:        "MpesaGateway",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(config.MpesaTimeoutSec) * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(st),
		logger:  logger,

		baseURL:        config.MpesaBaseURL,
		consumerKey:    config.MpesaConsumerKey,
		consumerSecret: config.MpesaConsumerSecret,
		shortCode:      config.MpesaShortCode,
		passkey:        config.MpesaPasskey,
		callbackURL:    config.MpesaCallbackURL,

		now: time.Now,
	}
}

// AccessToken fetches a bearer token from the Daraja credential endpoint.
// Tokens are not cached; every push fetches a fresh one.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/oauth/v1/generate?grant_type=client_credentials", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch access token: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
		}

		var token tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}

		if token.AccessToken == "" {
			return nil, fmt.Errorf("token endpoint returned empty access_token")
		}

		return token.AccessToken, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// STKPush prompts the payer's phone for the given amount. The returned
// response is the gateway's immediate acknowledgement, not payment
// confirmation.
func (c *Client) STKPush(ctx context.Context, phoneNumber string, amount float64) (*STKPushResponse, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format(timestampFormat)

	payload := &STKPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phoneNumber,
		PartyB:            c.shortCode,
		PhoneNumber:       phoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  "Charity",
		TransactionDesc:   "Donation",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stk push payload: %w", err)
	}

	url := fmt.Sprintf("%s/mpesa/stkpush/v1/processrequest", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("submit stk push: %w", err)
		}
		defer resp.Body.Close()

		var pushResp STKPushResponse
		if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
			return nil, fmt.Errorf("decode stk push response: %w", err)
		}

		return &pushResp, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*STKPushResponse), nil
}

// password is base64(shortcode + passkey + timestamp), per the Daraja spec.
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + timestamp))
}
