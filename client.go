package appdesc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/frantjc/appdesc/internal/descregexp"
)

// Client reads Releases from an `appdesc serve` API.
type Client struct {
	HTTPClient *http.Client
	Base       *url.URL
}

func (c *Client) init() error {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Base == nil {
		var err error
		c.Base, err = url.Parse("http://localhost:8080/")
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, v any, elems ...string) error {
	if err := c.init(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base.JoinPath(elems...).String(), nil)
	if err != nil {
		return err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body := map[string]string{}
		if err = json.NewDecoder(res.Body).Decode(&body); err == nil {
			if body["error"] != "" {
				return fmt.Errorf("http status code %d: %s", res.StatusCode, body["error"])
			}
		}

		return fmt.Errorf("http status code %d", res.StatusCode)
	}

	if v == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(v)
}

func (c *Client) GetChannels(ctx context.Context) ([]string, error) {
	channels := []string{}
	if err := c.get(ctx, &channels, "/api/v1/channels"); err != nil {
		return nil, err
	}

	return channels, nil
}

func (c *Client) GetReleases(ctx context.Context, channel string) ([]Release, error) {
	if !descregexp.IsChannel(channel) {
		return nil, fmt.Errorf("invalid channel %s", channel)
	}

	releases := []Release{}
	if err := c.get(ctx, &releases, "/api/v1/channels", channel, "releases"); err != nil {
		return nil, err
	}

	return releases, nil
}

func (c *Client) GetLatestRelease(ctx context.Context, channel string) (*Release, error) {
	if !descregexp.IsChannel(channel) {
		return nil, fmt.Errorf("invalid channel %s", channel)
	}

	release := &Release{}
	if err := c.get(ctx, release, "/api/v1/channels", channel, "releases", "latest"); err != nil {
		return nil, err
	}

	return release, nil
}

func (c *Client) Readyz(ctx context.Context) error {
	return c.get(ctx, nil, "/readyz")
}

func (c *Client) Healthz(ctx context.Context) error {
	return c.get(ctx, nil, "/healthz")
}
