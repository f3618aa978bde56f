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
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFWriter renders scraped pages to PDF files through headless Chrome.
type PDFWriter struct {
	dir string
}

// NewPDFWriter creates the output directory if needed. Rendering
// requires a Chrome binary on the host.
func NewPDFWriter(dir string) (*PDFWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PDFWriter{dir: dir}, nil
}

func (w *PDFWriter) Write(ctx context.Context, name, content string) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.UserAgent(userAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, wrapHTML(content)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(false).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("render pdf %s: %w", name, err)
	}

	return os.WriteFile(filepath.Join(w.dir, sanitizeFilename(name)+".pdf"), pdf, 0o644)
}

func wrapHTML(content string) string {
	return "<html><body>" + content + "</body></html>"
}
