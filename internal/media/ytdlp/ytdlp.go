// Package ytdlp wraps the yt-dlp binary to resolve video metadata and a
// streamable audio URL without downloading the video.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"streamscribe/internal/logging"
)

// VideoInfo is the metadata yt-dlp reports for a single video.
type VideoInfo struct {
	VideoID         string
	Title           string
	Uploader        string
	DurationSeconds float64
	AudioURL        string
}

// Client shells out to yt-dlp for metadata extraction.
type Client struct {
	binary        string
	timeout       time.Duration
	retryAttempts int
	logger        *slog.Logger
}

// NewClient builds a Client. Binary defaults to "yt-dlp" and attempts below
// one are clamped.
func NewClient(binary string, timeout time.Duration, retryAttempts int, logger *slog.Logger) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "yt-dlp"
	}
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		binary:        binary,
		timeout:       timeout,
		retryAttempts: retryAttempts,
		logger:        logging.NewComponentLogger(logger, "ytdlp"),
	}
}

type rawFormat struct {
	ACodec string `json:"acodec"`
	URL    string `json:"url"`
}

type rawInfo struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Uploader string      `json:"uploader"`
	Duration float64     `json:"duration"`
	URL      string      `json:"url"`
	ACodec   string      `json:"acodec"`
	Formats  []rawFormat `json:"formats"`
}

// FetchInfo runs yt-dlp against the URL and returns parsed metadata.
// Transient tool failures are retried with exponential backoff; malformed
// output fails immediately.
func (c *Client) FetchInfo(ctx context.Context, url string) (VideoInfo, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return VideoInfo{}, errors.New("fetch info: empty url")
	}

	var info VideoInfo
	operation := func() error {
		runCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		cmd := exec.CommandContext(runCtx, c.binary,
			"-J",
			"--no-playlist",
			"--no-warnings",
			"-f", "bestaudio/best",
			"--", url,
		)
		output, err := cmd.Output()
		if err != nil {
			detail := commandErrorDetail(err)
			c.logger.Warn("yt-dlp invocation failed", logging.Error(err), logging.String("detail", detail))
			return fmt.Errorf("yt-dlp: %w: %s", err, detail)
		}

		parsed, err := parseInfo(output)
		if err != nil {
			return backoff.Permanent(err)
		}
		info = parsed
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.retryAttempts-1))
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return VideoInfo{}, err
	}
	return info, nil
}

// parseInfo decodes yt-dlp JSON and selects the audio stream: the first
// listed format with an audio codec wins, falling back to the top-level URL.
func parseInfo(data []byte) (VideoInfo, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return VideoInfo{}, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	audioURL := ""
	for _, format := range raw.Formats {
		if format.ACodec != "" && format.ACodec != "none" && format.URL != "" {
			audioURL = format.URL
			break
		}
	}
	if audioURL == "" && raw.ACodec != "none" {
		audioURL = raw.URL
	}
	if audioURL == "" {
		return VideoInfo{}, fmt.Errorf("video %q has no audio stream", raw.Title)
	}

	return VideoInfo{
		VideoID:         raw.ID,
		Title:           raw.Title,
		Uploader:        raw.Uploader,
		DurationSeconds: raw.Duration,
		AudioURL:        audioURL,
	}, nil
}

func commandErrorDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return err.Error()
}
