// Package fetcher resolves podcast episode pages into local audio files.
//
// Episode pages are expected to carry OpenGraph metadata: the audio URL comes
// from `meta[property="og:audio"]`, the display title from `og:title`, and
// the show name from `og:site_name`. Downloads land under the audio root as
// <show>/<title><ext> so the batch pipeline can pick them up per collection.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"rapidscribe/internal/app/util/files"
	"rapidscribe/internal/logger"
)

var supportedAudioExts = []string{".mp3", ".m4a", ".wav", ".ogg", ".flac", ".ape"}

// Episode is the metadata scraped from an episode page.
type Episode struct {
	Title    string
	Show     string
	AudioURL string
}

// Result records the outcome of one page URL in a multi-fetch run.
type Result struct {
	PageURL   string
	LocalPath string
	Err       error
}

// Options configures a Fetcher. The zero value is usable: no progress bars
// and a default HTTP client with no overall timeout, so large downloads are
// bounded by the caller's context rather than a fixed deadline.
type Options struct {
	Client       *http.Client
	ShowProgress bool
	ProgressOut  io.Writer
}

type Fetcher struct {
	client       *http.Client
	showProgress bool
	progressOut  io.Writer
	log          *zap.Logger
}

func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	out := opts.ProgressOut
	if out == nil {
		out = os.Stderr
	}
	return &Fetcher{
		client:       client,
		showProgress: opts.ShowProgress,
		progressOut:  out,
		log:          logger.MustNew("fetcher"),
	}
}

// Episode fetches pageURL and extracts the OpenGraph audio metadata.
func (f *Fetcher) Episode(ctx context.Context, pageURL string) (*Episode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch episode page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch episode page %s: unexpected status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse episode page %s: %w", pageURL, err)
	}

	audioURL, _ := doc.Find(`meta[property="og:audio"]`).First().Attr("content")
	if audioURL == "" {
		return nil, fmt.Errorf("page %s has no og:audio meta tag", pageURL)
	}
	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = "episode"
	}
	show, _ := doc.Find(`meta[property="og:site_name"]`).First().Attr("content")

	resolved, err := resolveURL(pageURL, audioURL)
	if err != nil {
		return nil, fmt.Errorf("resolve audio url %q on page %s: %w", audioURL, pageURL, err)
	}

	return &Episode{
		Title:    title,
		Show:     strings.TrimSpace(show),
		AudioURL: resolved,
	}, nil
}

// Download saves the episode audio under destDir and returns the local path.
// An episode whose file already exists locally with the remote size is
// skipped. Remote size is the whole dedupe check: podcast CDNs hand back
// content-md5 headers in formats that never match a local digest.
func (f *Fetcher) Download(ctx context.Context, ep *Episode, destDir string) (string, error) {
	ext := audioExtension(ep.AudioURL)
	if ext == "" {
		return "", fmt.Errorf("no supported audio extension in url %s", ep.AudioURL)
	}

	dir := destDir
	if ep.Show != "" {
		dir = filepath.Join(destDir, sanitizeName(ep.Show))
	}
	if err := files.EnsureDir(dir); err != nil {
		return "", err
	}
	destPath := filepath.Join(dir, sanitizeName(ep.Title)+ext)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.AudioURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", ep.AudioURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", ep.AudioURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", ep.AudioURL, resp.Status)
	}

	if info, statErr := os.Stat(destPath); statErr == nil && resp.ContentLength > 0 && info.Size() == resp.ContentLength {
		f.log.Info("episode already downloaded, skipping",
			zap.String("title", ep.Title),
			zap.String("path", destPath),
			zap.Int64("size", info.Size()))
		return destPath, nil
	}

	f.log.Info("downloading episode",
		zap.String("title", ep.Title),
		zap.String("path", destPath),
		zap.Int64("size", resp.ContentLength))

	tmpPath := destPath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmpPath, err)
	}

	var container *mpb.Progress
	var reader io.Reader = resp.Body
	if f.showProgress && resp.ContentLength > 0 {
		container = mpb.New(
			mpb.WithOutput(f.progressOut),
			mpb.WithRefreshRate(120*time.Millisecond),
		)
		bar := container.AddBar(resp.ContentLength,
			mpb.PrependDecorators(
				decor.Name(ep.Title+" ", decor.WC{C: decor.DindentRight}),
				decor.Counters(decor.SizeB1024(0), "% .1f / % .1f", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.NewPercentage("%d", decor.WCSyncSpace),
				decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ "),
			),
		)
		reader = bar.ProxyReader(resp.Body)
	}

	written, err := io.Copy(out, reader)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if container != nil {
			container.Shutdown()
		}
		os.Remove(tmpPath)
		return "", fmt.Errorf("download %s: %w", ep.AudioURL, err)
	}
	if container != nil {
		container.Wait()
	}

	// Rename keeps half-written files out of the batch pipeline's walk.
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalize %s: %w", destPath, err)
	}

	f.log.Info("episode downloaded",
		zap.String("title", ep.Title),
		zap.String("path", destPath),
		zap.Int64("bytes", written))
	return destPath, nil
}

// Fetch resolves pageURL and downloads its audio in one step.
func (f *Fetcher) Fetch(ctx context.Context, pageURL, destDir string) (string, error) {
	ep, err := f.Episode(ctx, pageURL)
	if err != nil {
		return "", err
	}
	f.log.Info("resolved episode",
		zap.String("url", pageURL),
		zap.String("title", ep.Title),
		zap.String("show", ep.Show))
	return f.Download(ctx, ep, destDir)
}

// FetchAll downloads every page URL in turn. Failures are recorded and
// skipped so one dead link does not abort the rest of the list.
func (f *Fetcher) FetchAll(ctx context.Context, pageURLs []string, destDir string) []Result {
	results := make([]Result, 0, len(pageURLs))
	for _, pageURL := range pageURLs {
		if ctx.Err() != nil {
			results = append(results, Result{PageURL: pageURL, Err: ctx.Err()})
			continue
		}
		localPath, err := f.Fetch(ctx, pageURL, destDir)
		if err != nil {
			f.log.Warn("episode fetch failed", zap.String("url", pageURL), zap.Error(err))
		}
		results = append(results, Result{PageURL: pageURL, LocalPath: localPath, Err: err})
	}
	return results
}

// sanitizeName keeps scraped titles usable as file names.
func sanitizeName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "/", "-"))
}

// audioExtension pulls a known audio extension out of the URL path, ignoring
// any query string the CDN tacks on.
func audioExtension(audioURL string) string {
	u, err := url.Parse(audioURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, supported := range supportedAudioExts {
		if ext == supported {
			return ext
		}
	}
	return ""
}

// resolveURL makes audio URLs absolute against the page they came from.
// Self-hosted pages occasionally publish og:audio as a relative path.
func resolveURL(pageURL, audioURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(audioURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
