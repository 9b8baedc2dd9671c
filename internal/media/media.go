// Package media attaches a featured image to a run: remote URLs are fetched
// and re-uploaded, already-uploaded binaries are forwarded as-is. Every
// failure degrades to "no featured image" rather than aborting the run.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"pressgen/internal/core"
	"pressgen/internal/logger"
)

// maxFilenameBase caps the title-derived part of the upload filename.
const maxFilenameBase = 50

// maxImageBytes bounds how much of a remote image is read.
const maxImageBytes = 16 << 20

// Uploader is the content-backend surface the resolver needs.
type Uploader interface {
	UploadMedia(ctx context.Context, data []byte, filename string, contentType string) (int, error)
}

// Resolver uploads or fetches a run's featured image.
type Resolver struct {
	uploader   Uploader
	httpClient *http.Client
}

// NewResolver creates a media resolver fetching remote images with the given
// bounded timeout.
func NewResolver(uploader Uploader, fetchTimeout time.Duration) *Resolver {
	return &Resolver{
		uploader:   uploader,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// NewResolverWithHTTP creates a resolver with an explicit http.Client, used
// by tests.
func NewResolverWithHTTP(uploader Uploader, httpClient *http.Client) *Resolver {
	return &Resolver{uploader: uploader, httpClient: httpClient}
}

// Attach resolves the topic's image reference to an uploaded media id. It
// returns 0 when the topic carries no image or when any fetch/upload step
// fails; the caller publishes without a featured image in that case.
func (r *Resolver) Attach(ctx context.Context, topic core.TopicCandidate, title string) int {
	data := topic.ImageData
	contentType := topic.ImageMIME

	if len(data) == 0 {
		if topic.ImageURL == "" {
			return 0
		}
		var err error
		data, contentType, err = r.fetch(ctx, topic.ImageURL)
		if err != nil {
			logger.Error("failed to fetch image, publishing without featured media", err, "url", topic.ImageURL)
			return 0
		}
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	id, err := r.uploader.UploadMedia(ctx, data, Filename(title), contentType)
	if err != nil {
		logger.Error("failed to upload image, publishing without featured media", err)
		return 0
	}
	return id
}

// fetch downloads a remote image, returning its bytes and content type.
func (r *Resolver) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image fetch returned an empty body")
	}

	contentType := resp.Header.Get("Content-Type")
	return data, contentType, nil
}

// Filename derives the upload filename from the article title: non-ASCII and
// non-alphanumeric characters stripped, spaces collapsed to underscores,
// length-capped, with a fixed suffix.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	base := strings.Join(strings.Fields(b.String()), "_")
	if len(base) > maxFilenameBase {
		base = base[:maxFilenameBase]
	}
	if base == "" {
		base = "featured"
	}
	return base + "_img.jpg"
}
