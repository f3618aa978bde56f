// Copyright 2025 The chatting-with-docs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
)

const defaultAWSBaseURL = "https://aws.amazon.com"

// AWSFAQ scrapes the AWS service FAQ pages. Each FAQ page becomes one
// output document.
type AWSFAQ struct {
	fetcher  *Fetcher
	writer   Writer
	baseURL  string
	poolSize int
	logger   *slog.Logger
}

type faqLink struct {
	name string
	url  string
}

// NewAWSFAQ creates the AWS FAQ scraper.
func NewAWSFAQ(fetcher *Fetcher, writer Writer, opts ...TargetOption) *AWSFAQ {
	cfg := newTargetConfig(opts...)
	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = defaultAWSBaseURL
	}
	return &AWSFAQ{
		fetcher:  fetcher,
		writer:   writer,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		poolSize: cfg.poolSize,
		logger:   slog.Default().With("component", "scraper", "target", TargetAWSFAQ),
	}
}

// Run fetches the FAQ index, then fetches and stores every linked FAQ
// page. A page that cannot be fetched or parsed is logged and skipped.
func (s *AWSFAQ) Run(ctx context.Context) error {
	index, err := s.fetcher.FetchPage(ctx, s.baseURL+"/faqs/")
	if err != nil {
		return fmt.Errorf("fetch faq index: %w", err)
	}

	links, err := s.extractLinks(index)
	if err != nil {
		return fmt.Errorf("parse faq index: %w", err)
	}
	s.logger.Info("found faq pages", "count", len(links))

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, link := range links {
		link := link
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := s.scrapePage(ctx, link); err != nil {
				s.logger.Warn("skipping page", "name", link.name, "err", err)
			}
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("skipping page", "name", link.name, "err", err)
		}
	}
	wg.Wait()

	return nil
}

func (s *AWSFAQ) scrapePage(ctx context.Context, link faqLink) error {
	body, err := s.fetcher.FetchPage(ctx, link.url)
	if err != nil {
		return err
	}
	content, err := s.extractContent(body)
	if err != nil {
		return err
	}
	return s.writer.Write(ctx, link.name, content)
}

// extractLinks pulls the FAQ page links out of the index page. Only
// anchors inside the text boxes whose href mentions faqs count.
func (s *AWSFAQ) extractLinks(indexHTML string) ([]faqLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indexHTML))
	if err != nil {
		return nil, err
	}

	var links []faqLink
	doc.Find("div.aws-text-box a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "faqs") {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		links = append(links, faqLink{name: name, url: s.baseURL + href})
	})
	return links, nil
}

// extractContent pulls the FAQ text out of a page, dropping breadcrumb
// and navigation blocks first.
func (s *AWSFAQ) extractContent(pageHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", err
	}

	doc.Find("div.lb-breadcrumbs.lb-breadcrumbs-dropTitle").Remove()
	doc.Find("div.lb-none-pad.lb-grid").Remove()

	sections := doc.Find("div.lb-col.lb-tiny-24.lb-mid-24")
	if sections.Length() == 0 {
		return "", fmt.Errorf("no content sections found")
	}

	var b strings.Builder
	sections.Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(NormalizeText(sel.Text()))
		b.WriteString("\n")
	})
	return b.String(), nil
}
