package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-engine/internal/logger"
	"github.com/Dan9191/credit-engine/internal/models"
)

// Defaults are served until the first successful refresh, and whenever no
// feed is configured.
var Defaults = models.DashboardStats{
	HouseholdsAnalysed: "1.2M+",
	LoanVisibility:     "₹4,800 Cr",
	InclusionUplift:    "63%",
}

// Client reads dashboard statistics from an upstream XML feed of the form
//
//	<DashboardStats>
//	  <HouseholdsAnalysed>1.2M+</HouseholdsAnalysed>
//	  <LoanVisibility>₹4,800 Cr</LoanVisibility>
//	  <InclusionUplift>63%</InclusionUplift>
//	</DashboardStats>
//
// Requests are served from the last good snapshot; only the cron job talks to
// the upstream.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Entry

	mu      sync.RWMutex
	current models.DashboardStats

	cron *cron.Cron
}

// NewClient initializes a stats client. An empty url disables refreshing.
func NewClient(url string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		log:     logger.Component(log, "stats"),
		current: Defaults,
	}
}

// Current returns the latest known statistics.
func (c *Client) Current() models.DashboardStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh fetches the feed once and, on success, replaces the snapshot.
// A failed refresh keeps the previous snapshot.
func (c *Client) Refresh(ctx context.Context) error {
	if c.url == "" {
		return nil
	}
	body, err := c.sendRequest(ctx)
	if err != nil {
		return err
	}
	s, err := parseXMLResponse(body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	c.log.Infof("Dashboard stats refreshed: %s households", s.HouseholdsAnalysed)
	return nil
}

// Start runs an immediate refresh and schedules further ones with spec
// (standard cron syntax or descriptors such as "@every 10m").
func (c *Client) Start(spec string) error {
	if c.url == "" {
		c.log.Info("STATS_FEED_URL not set, serving default dashboard stats")
		return nil
	}
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.client.Timeout)
		defer cancel()
		if err := c.Refresh(ctx); err != nil {
			c.log.Warnf("Failed to refresh dashboard stats: %v", err)
		}
	}

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("failed to schedule stats refresh: %w", err)
	}
	job()
	c.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (c *Client) Stop() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
}

func (c *Client) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("Stats XML response: %s", string(body))
	return body, nil
}

func parseXMLResponse(rawBody []byte) (models.DashboardStats, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.FindElement("//DashboardStats")
	if root == nil {
		return models.DashboardStats{}, fmt.Errorf("no dashboard stats found in XML")
	}

	var s models.DashboardStats
	fields := []struct {
		tag string
		dst *string
	}{
		{"HouseholdsAnalysed", &s.HouseholdsAnalysed},
		{"LoanVisibility", &s.LoanVisibility},
		{"InclusionUplift", &s.InclusionUplift},
	}
	for _, f := range fields {
		el := root.FindElement("./" + f.tag)
		if el == nil || strings.TrimSpace(el.Text()) == "" {
			return models.DashboardStats{}, fmt.Errorf("%s element not found in XML", f.tag)
		}
		*f.dst = strings.TrimSpace(el.Text())
	}
	return s, nil
}
