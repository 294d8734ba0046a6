package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/stickerpress/stickerpress/internal/lottie"
)

const (
	downloadAttempts  = 5
	downloadBaseDelay = time.Second
	maxDownloadBytes  = 4 << 20 // Telegram caps .tgs uploads well below this.
)

// downloadSticker resolves a sticker file ID to its download URL and
// fetches and decodes the .tgs payload. Transient failures are retried
// with exponential backoff.
func (b *Bot) downloadSticker(ctx context.Context, fileID string) (*lottie.Document, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	data, err := b.fetchURL(ctx, b.fileURL(file))
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}

	doc, err := lottie.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode file %s: %w", fileID, err)
	}
	return doc, nil
}

// fetchURL GETs url, retrying up to downloadAttempts times with doubling
// delay. Context cancellation aborts both the request and the backoff wait.
func (b *Bot) fetchURL(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	delay := downloadBaseDelay

	for attempt := 1; attempt <= downloadAttempts; attempt++ {
		if attempt > 1 {
			b.log.Debug("Retrying download (attempt %d/%d) after %v", attempt, downloadAttempts, delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		data, err := b.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", downloadAttempts, lastErr)
}

func (b *Bot) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxDownloadBytes)
	}
	return data, nil
}
