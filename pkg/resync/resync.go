// Package resync fetches the complete authoritative snapshot from the
// coordinating server. Any failure — network error, timeout, non-success
// status, or a response that is not JSON — is returned to the caller, who
// must then leave local state untouched.
package resync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/models"
)

// DefaultTimeout bounds the snapshot request. Snapshot fetches are not
// retried automatically; the caller may retry manually.
const DefaultTimeout = 10 * time.Second

// ErrNotJSON indicates the snapshot endpoint answered with a content type
// other than JSON; the response is treated like a failed request.
var ErrNotJSON = errors.New("snapshot response is not JSON")

// Snapshot is the complete authoritative state of every collection.
type Snapshot struct {
	TimeSlots       []models.Slot                    `json:"timeSlots"`
	Lessons         []models.Lesson                  `json:"lessons"`
	Chats           []models.Chat                    `json:"chats"`
	Posts           []models.Post                    `json:"posts"`
	TeacherProfiles map[string]models.TeacherProfile `json:"teacherProfiles"`
	StudentProfiles map[string]models.StudentProfile `json:"studentProfiles"`
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	unmarshaler codec.Unmarshaler
}

// New creates a snapshot client for <baseURL>/api/sync. A zero timeout means
// DefaultTimeout.
func New(baseURL string, u codec.Unmarshaler, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		unmarshaler: u,
	}
}

// Fetch retrieves the snapshot. The returned error covers every failure mode
// of spec'd interest: connection failure, timeout, non-2xx status, wrong
// content type, and undecodable body.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sync", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("snapshot request returned status %d", res.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("%w: %q", ErrNotJSON, res.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot body: %w", err)
	}

	var snap Snapshot
	if err := c.unmarshaler.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &snap, nil
}
