package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

const dataURLPrefix = "data:"

// ParseDataURL - "data:<mime>;base64,<payload>" 형식 파싱
// 형식이 정확히 맞지 않으면 에러 (조용히 넘어가지 않음)
func ParseDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, "", fmt.Errorf("invalid data URL: missing %q prefix", dataURLPrefix)
	}
	rest := dataURL[len(dataURLPrefix):]

	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", fmt.Errorf("invalid data URL: missing \";base64,\" marker")
	}

	mimeType := rest[:sep]
	if mimeType == "" {
		return nil, "", fmt.Errorf("invalid data URL: empty mime type")
	}

	payload := rest[sep+len(";base64,"):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid data URL payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("invalid data URL: empty payload")
	}

	return data, mimeType, nil
}

// ToDataURL - 바이너리를 data URL로 인코딩
func ToDataURL(data []byte, mimeType string) string {
	return dataURLPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ConvertToWebP - PNG/JPEG 바이너리를 WebP로 변환
func ConvertToWebP(imageData []byte, quality float32) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	return webpBuffer.Bytes(), nil
}

// EncodePNG - 디코딩된 이미지를 PNG로 재인코딩
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
