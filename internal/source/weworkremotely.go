package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const wwrListingURL = "https://weworkremotely.com/categories/remote-programming-jobs"

// WeWorkRemotely scrapes the remote programming listing page. The site has
// no JSON API, so records come from the rendered HTML.
type WeWorkRemotely struct {
	client *http.Client
	logger *zap.Logger
	URL    string
}

func NewWeWorkRemotely(logger *zap.Logger) *WeWorkRemotely {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeWorkRemotely{
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
		URL:    wwrListingURL,
	}
}

func (w *WeWorkRemotely) Name() string { return "weworkremotely" }

func (w *WeWorkRemotely) Fetch(ctx context.Context) ([]RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var records []RawRecord
	skipped := 0
	doc.Find("section.jobs article ul li a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		title := strings.TrimSpace(s.Find("span.title").Text())
		company := strings.TrimSpace(s.Find("span.company").Text())
		if !ok || href == "" || title == "" || company == "" {
			skipped++
			return
		}

		link := strings.TrimPrefix(href, "//")
		if !strings.HasPrefix(link, "http") {
			link = "https://weworkremotely.com" + href
		}

		records = append(records, RawRecord{
			Title:       title,
			Description: title + " at " + company,
			Company:     company,
			Location:    "Remote",
			Link:        link,
			Source:      w.Name(),
		})
	})

	if skipped > 0 {
		w.logger.Debug("skipped malformed listing rows", zap.Int("skipped", skipped))
	}

	return records, nil
}
