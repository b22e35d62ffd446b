package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.twilio.com/2010-04-01"
	whatsappPrefix = "whatsapp:"
)

type Config struct {
	BaseURL    string        `split_words:"true" default:"https://api.twilio.com/2010-04-01"`
	AccountSID string        `envconfig:"ACCOUNT_SID" required:"true"`
	AuthToken  string        `split_words:"true" required:"true"`
	Number     string        `split_words:"true" required:"true"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
}

// Client sends WhatsApp messages through the Twilio Messages API.
type Client struct {
	accountSID string
	from       string
	httpClient *resty.Client
}

// MessageResponse is the subset of the Twilio message resource the assistant reads.
type MessageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid twilio base url: %w", err)
	}

	accountSID := strings.TrimSpace(cfg.AccountSID)
	if accountSID == "" {
		return nil, errors.New("twilio account sid is required")
	}
	authToken := strings.TrimSpace(cfg.AuthToken)
	if authToken == "" {
		return nil, errors.New("twilio auth token is required")
	}
	number := strings.TrimPrefix(strings.TrimSpace(cfg.Number), whatsappPrefix)
	if number == "" {
		return nil, errors.New("twilio number is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(accountSID, authToken).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{
		accountSID: accountSID,
		from:       number,
		httpClient: httpClient,
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendText sends a plain WhatsApp text message to the given number.
func (c *Client) SendText(ctx context.Context, to string, body string) (*MessageResponse, error) {
	return c.send(ctx, to, body, "")
}

// SendMedia sends a media message; body may be empty.
func (c *Client) SendMedia(ctx context.Context, to string, mediaURL string) (*MessageResponse, error) {
	if strings.TrimSpace(mediaURL) == "" {
		return nil, errors.New("media url is required")
	}
	return c.send(ctx, to, "", mediaURL)
}

func (c *Client) send(ctx context.Context, to string, body string, mediaURL string) (*MessageResponse, error) {
	if c == nil {
		return nil, errors.New("nil twilio client")
	}
	to = strings.TrimPrefix(strings.TrimSpace(to), whatsappPrefix)
	if to == "" {
		return nil, errors.New("recipient is required")
	}

	form := map[string]string{
		"From": whatsappPrefix + c.from,
		"To":   whatsappPrefix + to,
		"Body": body,
	}
	if mediaURL != "" {
		form["MediaUrl"] = mediaURL
	}

	var out MessageResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return nil, fmt.Errorf("twilio error status=%d code=%d: %s", resp.StatusCode(), apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("twilio error status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return &out, nil
}
