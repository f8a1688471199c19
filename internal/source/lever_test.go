package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestLeverFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[
			{
				"text": "Backend Intern",
				"hostedUrl": "https://jobs.lever.co/acme/1",
				"descriptionPlain": "Work on Go services",
				"categories": {"team": "Platform", "location": "Toronto"}
			},
			{
				"text": "   ",
				"hostedUrl": "https://jobs.lever.co/acme/2",
				"descriptionPlain": "malformed, no title"
			},
			{
				"text": "Data Intern",
				"hostedUrl": "",
				"descriptionPlain": "malformed, no link"
			}
		]`)
	}))
	defer server.Close()

	lever := NewLever([]string{"acme"}, zap.NewNop())
	lever.APIURL = server.URL

	records, err := lever.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected malformed items skipped, got %d records", len(records))
	}

	record := records[0]
	if record.Title != "Backend Intern" {
		t.Fatalf("unexpected title: %q", record.Title)
	}
	if record.Company != "Acme" {
		t.Fatalf("unexpected company: %q", record.Company)
	}
	if record.Location != "Toronto" {
		t.Fatalf("unexpected location: %q", record.Location)
	}
	if record.Extra != "Platform" {
		t.Fatalf("expected team category in extra text, got %q", record.Extra)
	}
	if record.Source != "lever" {
		t.Fatalf("unexpected source: %q", record.Source)
	}
}

func TestLeverFetchPartialBoardFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `[{"text": "Intern", "hostedUrl": "https://jobs.lever.co/up/1"}]`)
	}))
	defer server.Close()

	lever := NewLever([]string{"down", "up"}, zap.NewNop())
	lever.APIURL = server.URL

	records, err := lever.Fetch(context.Background())
	if err != nil {
		t.Fatalf("one failing board must not fail the fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected records from the healthy board, got %d", len(records))
	}
}

func TestLeverFetchAllBoardsFailing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	lever := NewLever([]string{"a", "b"}, zap.NewNop())
	lever.APIURL = server.URL

	if _, err := lever.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error when every board fails")
	}
}

func TestGreenhouseFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/jobs" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"jobs": [
				{
					"title": "Software Engineering Intern",
					"content": "Summer internship on the infra team",
					"absolute_url": "https://boards.greenhouse.io/acme/jobs/42",
					"location": {"name": "Remote"}
				},
				{
					"title": "",
					"content": "malformed",
					"absolute_url": "https://boards.greenhouse.io/acme/jobs/43"
				}
			]
		}`)
	}))
	defer server.Close()

	gh := NewGreenhouse([]string{"acme"}, zap.NewNop())
	gh.APIURL = server.URL

	records, err := gh.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Location != "Remote" {
		t.Fatalf("unexpected location: %q", records[0].Location)
	}
	if records[0].Source != "greenhouse" {
		t.Fatalf("unexpected source: %q", records[0].Source)
	}
}

func TestWeWorkRemotelyFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<section class="jobs"><article><ul>
				<li><a href="/remote-jobs/acme-backend-dev">
					<span class="title">Backend Developer</span>
					<span class="company">Acme</span>
				</a></li>
				<li><a href="/remote-jobs/broken">
					<span class="title"></span>
					<span class="company">NoTitle Inc</span>
				</a></li>
			</ul></article></section>
		</body></html>`)
	}))
	defer server.Close()

	wwr := NewWeWorkRemotely(zap.NewNop())
	wwr.URL = server.URL

	records, err := wwr.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Link != "https://weworkremotely.com/remote-jobs/acme-backend-dev" {
		t.Fatalf("unexpected link: %q", records[0].Link)
	}
	if records[0].Location != "Remote" {
		t.Fatalf("unexpected location: %q", records[0].Location)
	}
}

func TestRSSFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Jobs</title>
		<item>
			<title>Computer Science Intern - Acme</title>
			<link>https://example.com/jobs/1</link>
			<description>Internship in Canada</description>
		</item>
		<item>
			<title></title>
			<link>https://example.com/jobs/2</link>
			<description>malformed, no title</description>
		</item>
	</channel>
</rss>`)
	}))
	defer server.Close()

	rss := NewRSS([]string{"computer science canada"}, zap.NewNop())
	rss.FeedURL = server.URL

	records, err := rss.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected malformed item skipped, got %d records", len(records))
	}
	if records[0].Title != "Computer Science Intern - Acme" {
		t.Fatalf("unexpected title: %q", records[0].Title)
	}
	if records[0].Source != "indeed" {
		t.Fatalf("unexpected source: %q", records[0].Source)
	}
}
