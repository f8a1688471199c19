package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const greenhouseAPIURL = "https://boards-api.greenhouse.io/v1/boards"

// Greenhouse fetches postings from Greenhouse-hosted company boards.
type Greenhouse struct {
	companies []string
	client    *http.Client
	logger    *zap.Logger
	APIURL    string
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	AbsoluteURL string `json:"absolute_url"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

func NewGreenhouse(companies []string, logger *zap.Logger) *Greenhouse {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Greenhouse{
		companies: companies,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
		APIURL:    greenhouseAPIURL,
	}
}

func (g *Greenhouse) Name() string { return "greenhouse" }

func (g *Greenhouse) Fetch(ctx context.Context) ([]RawRecord, error) {
	var records []RawRecord
	failures := 0

	for _, company := range g.companies {
		boardRecords, err := g.fetchBoard(ctx, company)
		if err != nil {
			failures++
			g.logger.Warn("greenhouse board fetch failed",
				zap.String("company", company),
				zap.Error(err),
			)
			continue
		}
		records = append(records, boardRecords...)
	}

	if failures > 0 && failures == len(g.companies) {
		return nil, fmt.Errorf("all %d greenhouse boards failed", failures)
	}

	return records, nil
}

func (g *Greenhouse) fetchBoard(ctx context.Context, company string) ([]RawRecord, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", g.APIURL, company)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode greenhouse response: %w", err)
	}

	records := make([]RawRecord, 0, len(body.Jobs))
	skipped := 0
	for _, job := range body.Jobs {
		if job.AbsoluteURL == "" || job.Title == "" {
			skipped++
			continue
		}
		records = append(records, RawRecord{
			Title:       job.Title,
			Description: job.Content,
			Company:     capitalize(company),
			Location:    job.Location.Name,
			Link:        job.AbsoluteURL,
			Source:      g.Name(),
		})
	}

	if skipped > 0 {
		g.logger.Debug("skipped malformed greenhouse postings",
			zap.String("company", company),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}
