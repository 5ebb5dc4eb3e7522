package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	pkghttp "github.com/futig/docqa-client/pkg/http"
)

const downloadTimeout = 30 * time.Second

// TelegramDownloader downloads files from the Telegram file storage
type TelegramDownloader struct {
	bot     BotAPI
	client  *http.Client
	maxSize int64
}

func NewTelegramDownloader(bot BotAPI, maxSize int64) *TelegramDownloader {
	return &TelegramDownloader{
		bot:     bot,
		client:  pkghttp.NewClient(pkghttp.WithRequestTimeout(downloadTimeout)),
		maxSize: maxSize,
	}
}

// Download fetches the file content. Only https links are followed.
func (d *TelegramDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := d.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	return d.fetch(ctx, fileURL)
}

func (d *TelegramDownloader) fetch(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// one extra byte tells an oversized file apart from one exactly at the limit
	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > d.maxSize {
		return nil, fmt.Errorf("file too large: more than %d bytes", d.maxSize)
	}

	return data, nil
}
