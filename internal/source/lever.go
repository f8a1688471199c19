package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const leverAPIURL = "https://api.lever.co/v0/postings"

// Lever fetches postings from Lever-hosted company boards.
type Lever struct {
	companies []string
	client    *http.Client
	logger    *zap.Logger
	APIURL    string
}

type leverPosting struct {
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Team     string `json:"team"`
		Location string `json:"location"`
	} `json:"categories"`
}

func NewLever(companies []string, logger *zap.Logger) *Lever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lever{
		companies: companies,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
		APIURL:    leverAPIURL,
	}
}

func (l *Lever) Name() string { return "lever" }

// Fetch pulls every company board. A failing board is logged and skipped
// so one company's outage does not hide the others' postings.
func (l *Lever) Fetch(ctx context.Context) ([]RawRecord, error) {
	var records []RawRecord
	failures := 0

	for _, company := range l.companies {
		boardRecords, err := l.fetchBoard(ctx, company)
		if err != nil {
			failures++
			l.logger.Warn("lever board fetch failed",
				zap.String("company", company),
				zap.Error(err),
			)
			continue
		}
		records = append(records, boardRecords...)
	}

	if failures > 0 && failures == len(l.companies) {
		return nil, fmt.Errorf("all %d lever boards failed", failures)
	}

	return records, nil
}

func (l *Lever) fetchBoard(ctx context.Context, company string) ([]RawRecord, error) {
	url := fmt.Sprintf("%s/%s?mode=json", l.APIURL, company)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode lever response: %w", err)
	}

	var postings []leverPosting
	cfg := &mapstructure.DecoderConfig{
		Result:  &postings,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("map lever items: %w", err)
	}

	records := make([]RawRecord, 0, len(postings))
	skipped := 0
	for _, p := range postings {
		if p.HostedURL == "" || strings.TrimSpace(p.Text) == "" {
			skipped++
			continue
		}
		records = append(records, RawRecord{
			Title:       p.Text,
			Description: p.DescriptionPlain,
			Company:     capitalize(company),
			Location:    p.Categories.Location,
			Link:        p.HostedURL,
			Extra:       p.Categories.Team,
			Source:      l.Name(),
		})
	}

	if skipped > 0 {
		l.logger.Debug("skipped malformed lever postings",
			zap.String("company", company),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
