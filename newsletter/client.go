package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-site/utils"
)

// MessageSent is reported when only the fallback request went through and
// its response could not be read.
const MessageSent = "Subscription request sent"

// Client forwards signups to the newsletter endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		URL:  endpoint,
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

// Subscribe posts the email as JSON. If that request fails outright it
// falls back once to a form post whose response body is not inspected.
func (c *Client) Subscribe(ctx context.Context, email string) (Response, error) {
	resp, err := c.postJSON(ctx, email)
	if err == nil {
		return resp, nil
	}
	utils.ErrorLogger.Printf("Newsletter JSON post failed, retrying as form post: %v", err)

	if err := c.postForm(ctx, email); err != nil {
		return Response{}, fmt.Errorf("newsletter signup: %w", err)
	}
	return Response{Success: true, Message: MessageSent}, nil
}

func (c *Client) postJSON(ctx context.Context, email string) (Response, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer res.Body.Close()

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode newsletter response (status %d): %w", res.StatusCode, err)
	}
	return out, nil
}

func (c *Client) postForm(ctx context.Context, email string) error {
	form := url.Values{"email": {email}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, res.Body)
	return res.Body.Close()
}
