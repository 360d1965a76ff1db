package directory

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/avdeev/channel-scout-go/internal/constants"
	"github.com/avdeev/channel-scout-go/internal/domain"
	"go.uber.org/zap"
)

// PreviewResolver scrapes the public t.me preview page for a channel. It is a
// degraded fallback used when the gateway is unreachable: the page carries the
// title, description and an approximate subscriber count, but no numeric
// channel ID, so one is synthesized from the username.
type PreviewResolver struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewPreviewResolver(logger *zap.Logger) *PreviewResolver {
	return &PreviewResolver{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.PreviewTimeout,
		},
		baseURL: constants.APIConfig.PreviewBaseURL,
		logger:  logger,
	}
}

func (r *PreviewResolver) Resolve(ctx context.Context, handle string) (*domain.ChannelProfile, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, newError(KindNotFound, "preview", nil)
	}

	r.logger.Info("Resolving via preview page (FALLBACK MODE)",
		zap.String("handle", handle),
		zap.String("url", r.baseURL))

	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/"+handle, nil)
	if err != nil {
		return nil, newError(KindTransient, "preview", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ChannelScout/1.0)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindTransient, "preview", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, newError(KindNotFound, "preview", nil)
	}
	if resp.StatusCode != 200 {
		return nil, newError(KindTransient, "preview", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, newError(KindTransient, "preview", fmt.Errorf("HTML parse failed: %w", err))
	}

	title := strings.TrimSpace(doc.Find(".tgme_page_title").First().Text())
	if title == "" {
		// The page renders without a title block for non-existent handles
		// and for pages whose markup changed underneath us.
		return nil, &StructureChangedError{
			Message: "no title block found - page structure may have changed",
			Handle:  handle,
		}
	}

	profile := &domain.ChannelProfile{
		ID:       syntheticID(handle),
		Username: handle,
		Title:    title,
		About:    strings.TrimSpace(doc.Find(".tgme_page_description").First().Text()),
	}

	extra := strings.TrimSpace(doc.Find(".tgme_page_extra").First().Text())
	profile.ParticipantsCount = parseSubscriberCount(extra)

	if doc.Find(".tgme_page_title .verified-icon").Length() > 0 {
		profile.Verified = true
	}

	r.logger.Info("Preview resolve completed",
		zap.String("handle", handle),
		zap.String("title", title),
		zap.Int("participants", profile.ParticipantsCount))

	return profile, nil
}

// parseSubscriberCount extracts the count from strings like
// "12 345 subscribers" or "1 234 members, 56 online".
func parseSubscriberCount(extra string) int {
	if extra == "" {
		return 0
	}
	if idx := strings.IndexByte(extra, ','); idx != -1 {
		extra = extra[:idx]
	}

	count := 0
	seen := false
	for _, r := range extra {
		if r >= '0' && r <= '9' {
			count = count*10 + int(r-'0')
			seen = true
		} else if seen && r != ' ' && r != ' ' {
			break
		}
	}
	return count
}

// syntheticID derives a stable negative identity for preview-resolved
// channels. Negative values cannot collide with real gateway IDs, and the
// aggregator still deduplicates repeat hits for the same username.
func syntheticID(handle string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(handle)))
	return -int64(h.Sum64() >> 1)
}

type StructureChangedError struct {
	Message string
	Handle  string
}

func (e *StructureChangedError) Error() string {
	return fmt.Sprintf("%s (handle: %s)", e.Message, e.Handle)
}

func IsStructureError(err error) bool {
	_, ok := err.(*StructureChangedError)
	return ok
}
