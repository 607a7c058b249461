package sheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nilsimda/leaderboard/models"
)

var ErrBadStatus = errors.New("unexpected status code")

// Client fetches the gviz HTML export of each round's sheet tab.
type Client struct {
	baseURL    string
	gids       map[models.RoundID]string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, gids map[models.RoundID]string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		gids:    gids,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConns:        10,
			},
		},
		logger: logger.With("component", "sheet"),
	}
}

func (c *Client) RoundURL(round models.RoundID) (string, error) {
	gid, ok := c.gids[round]
	if !ok {
		return "", fmt.Errorf("no sheet configured for %q: %w", round, models.ErrUnknownRound)
	}
	q := url.Values{}
	q.Set("tqx", "out:html")
	q.Set("gid", gid)
	return c.baseURL + "/gviz/tq?" + q.Encode(), nil
}

// FetchRound downloads and parses one round. Callers decide how to degrade on error.
func (c *Client) FetchRound(ctx context.Context, round models.RoundID) (models.Dataset, error) {
	u, err := c.RoundURL(round)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", round, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", round, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %w: %d", round, ErrBadStatus, resp.StatusCode)
	}

	rows, err := ParseTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", round, err)
	}

	c.logger.Debug("fetched round", "round", round, "rows", len(rows), "took", time.Since(start))
	return rows, nil
}
