package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// Default http client timeout in secs.
	defaultHTTPClientTimeout = 10 * time.Second
)

type (
	// Client is the base for http/https calls
	Client struct {
		httpClient *http.Client
	}

	// ReqConfig models the configuration options for requests.
	ReqConfig struct {
		Payload []byte
		Method  string
		HTTPURL string
		// IsActive should always be true, signifying that the user has
		// authorised the specific API call to access the internet.
		IsActive bool
	}
)

// NewClient configures and return a new client
func NewClient() (c *Client) {
	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultHTTPClientTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
}

func (c *Client) requestFilter(ctx context.Context, reqConfig *ReqConfig) (req *http.Request, err error) {
	req, err = http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.HTTPURL, bytes.NewBuffer(reqConfig.Payload))
	if err != nil {
		return
	}
	if reqConfig.Method == http.MethodPost || reqConfig.Method == http.MethodPut {
		req.Header.Add("Content-Type", "application/json;charset=utf-8")
	}
	req.Header.Add("Accept", "application/json")
	return
}

// Do prepares and processes the HTTP request described by reqConfig and
// json-decodes a 200 response body into response.
func (c *Client) Do(ctx context.Context, reqConfig *ReqConfig, response interface{}) (err error) {
	if !reqConfig.IsActive {
		return fmt.Errorf("error: API call not allowed: %v", reqConfig.HTTPURL)
	}

	if _, err := url.ParseRequestURI(reqConfig.HTTPURL); err != nil {
		return fmt.Errorf("error: url not properly constituted: %v", err)
	}

	var req *http.Request
	req, err = c.requestFilter(ctx, reqConfig)
	if err != nil {
		return err
	}

	if req == nil {
		return errors.New("error: nil request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error: status: %v resp: %s", resp.Status, body)
	}

	return json.Unmarshal(body, response)
}
