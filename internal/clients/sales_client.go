package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type saleResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *domain.Sale `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SalesClient talks to the sales endpoints of a running backend. Registers
// built on the pos package use it as both the sale submitter and the elevated
// discount authorizer.
type SalesClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

func NewSalesClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *SalesClient {
	return &SalesClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

// SetToken installs the bearer token sent with every subsequent request.
func (c *SalesClient) SetToken(token string) {
	c.token = token
}

func (c *SalesClient) newRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var reader *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// serverMessage pulls the message out of an error envelope so the caller sees
// the backend's own wording (e.g. "insufficient stock for product 3").
func serverMessage(resp *http.Response) string {
	var envelope errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Message == "" {
		return fmt.Sprintf("sales service returned status %d", resp.StatusCode)
	}
	return envelope.Message
}

func (c *SalesClient) SubmitSale(ctx context.Context, input *domain.SaleInput) (*domain.Sale, error) {
	url := fmt.Sprintf("%s/sales", c.baseURL)
	c.log.Infof("SalesClient: Submitting sale with %d items to %s", len(input.Items), url)

	req, err := c.newRequest(ctx, http.MethodPost, url, input)
	if err != nil {
		c.log.Errorf("SalesClient: Failed to create SubmitSale request: %v", err)
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("SalesClient: Failed to execute SubmitSale request: %v", err)
		return nil, fmt.Errorf("failed to communicate with sales service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		message := serverMessage(resp)
		c.log.Errorf("SalesClient: SubmitSale failed with status %d: %s", resp.StatusCode, message)
		return nil, fmt.Errorf("%s", message)
	}

	var response saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.log.Errorf("SalesClient: Failed to decode SubmitSale response: %v", err)
		return nil, fmt.Errorf("failed to decode sales response: %w", err)
	}
	if response.Data == nil {
		return nil, fmt.Errorf("sales service returned an empty sale")
	}

	c.log.Infof("SalesClient: Sale %d persisted, total %s", response.Data.ID, response.Data.Total.String())
	return response.Data, nil
}

func (c *SalesClient) AuthorizeElevated(ctx context.Context, username, password string) error {
	url := fmt.Sprintf("%s/auth/elevate", c.baseURL)
	c.log.Infof("SalesClient: Requesting elevated authorization for user '%s'", username)

	body := map[string]string{
		"username": username,
		"password": password,
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		c.log.Errorf("SalesClient: Failed to create AuthorizeElevated request: %v", err)
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("SalesClient: Failed to execute AuthorizeElevated request: %v", err)
		return fmt.Errorf("failed to communicate with sales service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message := serverMessage(resp)
		c.log.Warnf("SalesClient: Elevated authorization rejected with status %d: %s", resp.StatusCode, message)
		return fmt.Errorf("%s", message)
	}
	return nil
}
