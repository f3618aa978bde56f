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
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
)

const defaultBG3BaseURL = "https://bg3.wiki/"

// bg3ItemCategories are the wiki category pages whose item tables get
// scraped.
var bg3ItemCategories = []string{
	"wiki/Clothing",
	"wiki/Armour",
	"wiki/Shields",
	"wiki/Headwear",
	"wiki/Cloaks",
	"wiki/Handwear",
	"wiki/Footwear",
	"wiki/Amulets",
	"wiki/Rings",
	"wiki/Arrows",
	"wiki/List_of_Weapons",
}

// BG3 scrapes item and spell pages from the Baldur's Gate 3 wiki. Each
// wiki page becomes one output document.
type BG3 struct {
	fetcher  *Fetcher
	writer   Writer
	baseURL  string
	poolSize int
	logger   *slog.Logger
}

// NewBG3 creates the Baldur's Gate 3 wiki scraper.
func NewBG3(fetcher *Fetcher, writer Writer, opts ...TargetOption) *BG3 {
	cfg := newTargetConfig(opts...)
	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = defaultBG3BaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &BG3{
		fetcher:  fetcher,
		writer:   writer,
		baseURL:  baseURL,
		poolSize: cfg.poolSize,
		logger:   slog.Default().With("component", "scraper", "target", TargetBG3),
	}
}

// Run collects page links from the item category tables and the spells
// index, then fetches and stores every page. A page that cannot be
// fetched or parsed is logged and skipped.
func (s *BG3) Run(ctx context.Context) error {
	links := make(map[string]struct{})

	for _, category := range bg3ItemCategories {
		body, err := s.fetcher.FetchPage(ctx, s.baseURL+category)
		if err != nil {
			return fmt.Errorf("fetch category %s: %w", category, err)
		}
		if err := s.collectItemLinks(body, links); err != nil {
			return fmt.Errorf("parse category %s: %w", category, err)
		}
	}

	spellsBody, err := s.fetcher.FetchPage(ctx, s.baseURL+"wiki/Spells")
	if err != nil {
		return fmt.Errorf("fetch spells index: %w", err)
	}
	if err := s.collectSpellLinks(spellsBody, links); err != nil {
		return fmt.Errorf("parse spells index: %w", err)
	}
	s.logger.Info("found wiki pages", "count", len(links))

	ordered := make([]string, 0, len(links))
	for link := range links {
		ordered = append(ordered, link)
	}
	sort.Strings(ordered)

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, link := range ordered {
		link := link
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := s.scrapePage(ctx, link); err != nil {
				s.logger.Warn("skipping page", "link", link, "err", err)
			}
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("skipping page", "link", link, "err", err)
		}
	}
	wg.Wait()

	return nil
}

func (s *BG3) scrapePage(ctx context.Context, link string) error {
	body, err := s.fetcher.FetchPage(ctx, s.pageURL(link))
	if err != nil {
		return err
	}
	content, err := s.extractContent(body)
	if err != nil {
		return err
	}

	parts := strings.Split(link, "/")
	name := parts[len(parts)-1]
	return s.writer.Write(ctx, name, content)
}

func (s *BG3) pageURL(link string) string {
	return s.baseURL + strings.TrimPrefix(link, "/")
}

// collectItemLinks pulls item page links out of a category page's
// tables. The first cell of each row links to the item.
func (s *BG3) collectItemLinks(pageHTML string, links map[string]struct{}) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return err
	}

	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("td").First().Find("a").Attr("href")
		if ok {
			links[href] = struct{}{}
		}
	})
	return nil
}

// collectSpellLinks pulls spell page links out of the spells index.
func (s *BG3) collectSpellLinks(pageHTML string, links map[string]struct{}) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return err
	}

	doc.Find("div.div-col a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			links[href] = struct{}{}
		}
	})
	return nil
}

// extractContent takes the article body with edit-section markers
// removed, and appends the item image URL when the page has one.
func (s *BG3) extractContent(pageHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", err
	}

	body := doc.Find("div.mw-parser-output").First()
	if body.Length() == 0 {
		return "", fmt.Errorf("no article body found")
	}
	body.Find("span.mw-editsection").Remove()

	text := NormalizeText(body.Text())

	if src, ok := body.Find("div.floatright img").First().Attr("src"); ok {
		text += "\n\n image: " + s.pageURL(src)
	}
	return text, nil
}
