// Package storage - 생성 결과물의 Supabase Storage 업로드/다운로드
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"virtual-studio-server/modules/common/config"
	"virtual-studio-server/modules/common/utils"
)

type Client struct {
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadImage - 생성 이미지를 WebP로 변환해 업로드, 저장 경로 반환
func (c *Client) UploadImage(ctx context.Context, imageData []byte, userID string) (string, int64, error) {
	// WebP 변환 (quality: 90)
	webpData, err := utils.ConvertToWebP(imageData, 90.0)
	if err != nil {
		return "", 0, fmt.Errorf("failed to convert image to WebP: %w", err)
	}

	fileName := fmt.Sprintf("generated_%d_%s.webp", time.Now().UnixMilli(), uuid.New().String()[:8])
	filePath := fmt.Sprintf("generated-images/user-%s/%s", userID, fileName)

	if err := c.upload(ctx, filePath, webpData, "image/webp"); err != nil {
		return "", 0, err
	}

	webpSize := int64(len(webpData))
	log.Printf("✅ WebP image uploaded: %s (%d bytes)", filePath, webpSize)
	return filePath, webpSize, nil
}

// UploadVideo - 생성 비디오 업로드 (변환 없이 원본 그대로)
func (c *Client) UploadVideo(ctx context.Context, videoData []byte, userID string) (string, error) {
	fileName := fmt.Sprintf("generated_%d_%s.mp4", time.Now().UnixMilli(), uuid.New().String()[:8])
	filePath := fmt.Sprintf("generated-videos/user-%s/%s", userID, fileName)

	if err := c.upload(ctx, filePath, videoData, "video/mp4"); err != nil {
		return "", err
	}

	log.Printf("✅ Video uploaded: %s (%d bytes)", filePath, len(videoData))
	return filePath, nil
}

// upload - Supabase Storage API로 바이너리 POST
func (c *Client) upload(ctx context.Context, filePath string, data []byte, contentType string) error {
	cfg := config.GetConfig()

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, cfg.SupabaseBucket, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Download - Storage 공개 URL에서 바이너리 다운로드
func (c *Client) Download(ctx context.Context, filePath string) ([]byte, error) {
	cfg := config.GetConfig()

	fullURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", cfg.SupabaseURL, cfg.SupabaseBucket, filePath)
	log.Printf("📥 Downloading from storage: %s", fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
