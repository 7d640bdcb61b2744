// Package client is the outbound side of the protocol: pushing resource
// updates to a counterparty node. Replies are interpreted with
// ocpi.ParseResponse, so a broken remote yields a sentinel status instead
// of an error path.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ocpinode/ocpi"
	"ocpinode/utility"
)

type Client struct {
	client *http.Client
	url    string
	token  string
}

func New(url, token string) *Client {
	return &Client{
		url:    url,
		token:  token,
		client: &http.Client{},
	}
}

func (c *Client) Get(endpoint string) (*ocpi.Response, error) {
	return c.doRequest(http.MethodGet, endpoint, nil)
}

func (c *Client) Put(endpoint string, data interface{}) (*ocpi.Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling body: %w", err)
	}
	return c.doRequest(http.MethodPut, endpoint, body)
}

func (c *Client) Patch(endpoint string, data interface{}) (*ocpi.Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling body: %w", err)
	}
	return c.doRequest(http.MethodPatch, endpoint, body)
}

// Post pushes in the background with retries; the callback receives the
// parsed reply of the first attempt that reached the remote.
func (c *Client) Post(endpoint string, data interface{}, callback func(response *ocpi.Response, err error)) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("ocpi client: error marshalling body: %v", err)
		return
	}
	go func() {
		var response *ocpi.Response
		for attempt := 0; attempt < 3; attempt++ {
			response, err = c.doRequest(http.MethodPost, endpoint, body)
			if err == nil {
				callback(response, nil)
				return
			}
			log.Printf("ocpi client: %s: %v (attempt %d)", endpoint, err, attempt+1)
			time.Sleep(time.Duration((attempt+1)*10) * time.Second)
		}
		callback(nil, err)
	}()
}

func (c *Client) doRequest(method, endpoint string, body []byte) (*ocpi.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%v%v", c.url, endpoint)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set(ocpi.HeaderRequestId, utility.NewUUID())
	req.Header.Set(ocpi.HeaderCorrelationId, utility.NewUUID())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return ocpi.ParseResponse(resp.StatusCode, resp.Status, body), nil
}
