// Package scraper collects documents from a fixed set of websites and
// writes them to a local directory, ready to be fed into a collection.
//
// Each supported site has its own scraper that knows the site's index
// pages and content selectors. Page fetches fan out over a bounded
// worker pool; failures on individual pages are logged and skipped, only
// a failing index fetch aborts a run.
package scraper
