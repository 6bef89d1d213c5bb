// Package gemini - 생성 백엔드(Gemini API) 바인딩
// 이미지 배치, 생성형 편집(인페인트), 비디오 제출/폴링/다운로드를 담당
package gemini

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"virtual-studio-server/modules/common/config"
	"virtual-studio-server/modules/prompt"
)

// Client - 설정된 API 키 목록으로 Gemini를 호출하는 클라이언트
// 429 소진 시 다음 키로 넘어감
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewClient - 전역 설정 기반 클라이언트 생성
func NewClient() *Client {
	return &Client{
		cfg: config.GetConfig(),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// newGenAI - 키 하나로 genai 클라이언트 생성
func (c *Client) newGenAI(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// segmentsToContent - 컴파일된 세그먼트를 genai 컨텐츠로 변환
// 세그먼트 순서 = 파트 순서 (이미지 위치 규약이 여기에 걸려 있음)
func segmentsToContent(segments []prompt.Segment, negativePrompt string) *genai.Content {
	parts := make([]*genai.Part, 0, len(segments)+1)
	for _, seg := range segments {
		switch seg.Kind {
		case prompt.SegmentText:
			parts = append(parts, genai.NewPartFromText(seg.Text))
		case prompt.SegmentImage:
			parts = append(parts, genai.NewPartFromBytes(seg.Data, seg.MIME))
		}
	}
	if np := strings.TrimSpace(negativePrompt); np != "" {
		parts = append(parts, genai.NewPartFromText(fmt.Sprintf("**NEGATIVE PROMPT (MUST AVOID):** %s", np)))
	}
	return &genai.Content{
		Parts: parts,
		Role:  genai.RoleUser,
	}
}

// generateContent - 모든 API 키를 순회하며 GenerateContent 호출
// 키마다 WithRetry 정책 적용, 재시도 불가 에러는 즉시 반환
func (c *Client) generateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	genCfg *genai.GenerateContentConfig,
	onRetry func(attempt int, delay time.Duration),
) (*genai.GenerateContentResponse, error) {

	apiKeys := c.cfg.GeminiAPIKeys
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	opts := DefaultRetryOptions()
	opts.OnRetry = onRetry

	var lastErr error
	for keyIndex, apiKey := range apiKeys {
		log.Printf("🔑 [Gemini] Trying API key #%d/%d", keyIndex+1, len(apiKeys))

		var result *genai.GenerateContentResponse
		err := WithRetry(ctx, opts, func(ctx context.Context) error {
			client, err := c.newGenAI(ctx, apiKey)
			if err != nil {
				return err
			}
			result, err = client.Models.GenerateContent(ctx, model, contents, genCfg)
			return err
		})
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !IsRetryable(err) {
			return nil, err
		}
		log.Printf("⚠️  [Gemini] Key #%d exhausted, trying next key...", keyIndex+1)
	}

	return nil, fmt.Errorf("all %d API keys exhausted, last error: %w", len(apiKeys), lastErr)
}

// ImageRequest - 이미지 배치 생성 요청
type ImageRequest struct {
	Segments       []prompt.Segment
	AspectRatio    string
	Count          int
	NegativePrompt string
	OnRetry        func(attempt int, delay time.Duration)
}

// GenerateImages - 한 번의 백엔드 호출로 최대 Count장 생성
// 이미지가 도착하는 대로 onImage(index, data, mime) 호출, 생성된 장수 반환
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest, onImage func(index int, data []byte, mimeType string)) (int, error) {
	if req.Count <= 0 {
		req.Count = 1
	}

	contents := []*genai.Content{segmentsToContent(req.Segments, req.NegativePrompt)}
	genCfg := &genai.GenerateContentConfig{
		CandidateCount: int32(req.Count),
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
		},
	}

	result, err := c.generateContent(ctx, c.cfg.GeminiImageModel, contents, genCfg, req.OnRetry)
	if err != nil {
		return 0, err
	}

	produced, err := deliverImages(result, req.Count, onImage)
	if err != nil {
		return produced, err
	}
	log.Printf("✅ [Gemini] Generated %d/%d image(s)", produced, req.Count)
	return produced, nil
}

// deliverImages - 응답의 인라인 이미지를 도착 순서대로 onImage에 전달
// 모델이 요청 장수보다 적게 반환하면 전달한 장수와 함께 에러
// (부분 결과는 이미 onImage로 나갔으므로 호출자 쪽 슬롯에는 남음)
func deliverImages(result *genai.GenerateContentResponse, count int, onImage func(index int, data []byte, mimeType string)) (int, error) {
	produced := 0
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				onImage(produced, part.InlineData.Data, part.InlineData.MIMEType)
				produced++
				break
			}
		}
	}

	if produced == 0 {
		return 0, fmt.Errorf("no image data in Gemini response")
	}
	if produced < count {
		return produced, fmt.Errorf("backend produced %d of %d images", produced, count)
	}
	return produced, nil
}

// EditRequest - 생성형 편집 (인페인트) 요청
// 순서 고정: 프롬프트, 원본, 마스크, (선택) 레퍼런스
type EditRequest struct {
	Prompt        string
	Image         []byte
	ImageMIME     string
	Mask          []byte
	Reference     []byte
	ReferenceMIME string
	AspectRatio   string
}

// GenerativeEdit - 마스크 영역만 수정한 새 이미지 한 장 반환
func (c *Client) GenerativeEdit(ctx context.Context, req EditRequest) ([]byte, string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
		genai.NewPartFromBytes(req.Image, req.ImageMIME),
	}
	if len(req.Mask) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Mask, "image/png")) // 마스크는 PNG
	}
	if len(req.Reference) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Reference, req.ReferenceMIME))
	}

	content := &genai.Content{
		Parts: parts,
		Role:  genai.RoleUser,
	}
	genCfg := &genai.GenerateContentConfig{}
	if req.AspectRatio != "" {
		genCfg.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}

	result, err := c.generateContent(ctx, c.cfg.GeminiImageModel, []*genai.Content{content}, genCfg, nil)
	if err != nil {
		return nil, "", err
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, nil
			}
		}
	}
	return nil, "", fmt.Errorf("no image data in edit response")
}

// VideoOperation - 진행 중인 비디오 생성 작업 핸들
type VideoOperation struct {
	Name     string
	Done     bool
	VideoURI string

	apiKey string
	raw    *genai.GenerateVideosOperation
}

// VideoRequest - 비디오 생성 요청 (시작 프레임 이미지는 선택)
type VideoRequest struct {
	Prompt         string
	Image          []byte
	ImageMIME      string
	AspectRatio    string
	NegativePrompt string
	OnRetry        func(attempt int, delay time.Duration)
}

// StartVideo - 비디오 생성 작업 제출. 폴링은 PollVideo로
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (*VideoOperation, error) {
	apiKeys := c.cfg.GeminiAPIKeys
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	var image *genai.Image
	if len(req.Image) > 0 {
		image = &genai.Image{ImageBytes: req.Image, MIMEType: req.ImageMIME}
	}
	videoCfg := &genai.GenerateVideosConfig{
		AspectRatio:    req.AspectRatio,
		NumberOfVideos: 1,
		NegativePrompt: req.NegativePrompt,
	}

	opts := DefaultRetryOptions()
	opts.OnRetry = req.OnRetry

	var lastErr error
	for keyIndex, apiKey := range apiKeys {
		var op *genai.GenerateVideosOperation
		err := WithRetry(ctx, opts, func(ctx context.Context) error {
			client, err := c.newGenAI(ctx, apiKey)
			if err != nil {
				return err
			}
			op, err = client.Models.GenerateVideos(ctx, c.cfg.GeminiVideoModel, req.Prompt, image, videoCfg)
			return err
		})
		if err == nil {
			log.Printf("📤 [Gemini] Video job submitted: %s", op.Name)
			return &VideoOperation{Name: op.Name, apiKey: apiKey, raw: op}, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !IsRetryable(err) {
			return nil, err
		}
		log.Printf("⚠️  [Gemini] Video submit failed on key #%d, trying next key...", keyIndex+1)
	}
	return nil, fmt.Errorf("video submit failed on all keys, last error: %w", lastErr)
}

// PollVideo - 작업 상태 갱신. Done이면 VideoURI가 채워짐
func (c *Client) PollVideo(ctx context.Context, op *VideoOperation) (*VideoOperation, error) {
	client, err := c.newGenAI(ctx, op.apiKey)
	if err != nil {
		return nil, err
	}

	updated, err := client.Operations.GetVideosOperation(ctx, op.raw, nil)
	if err != nil {
		return nil, err
	}

	next := &VideoOperation{Name: updated.Name, Done: updated.Done, apiKey: op.apiKey, raw: updated}
	if updated.Done {
		if updated.Response == nil || len(updated.Response.GeneratedVideos) == 0 || updated.Response.GeneratedVideos[0].Video == nil {
			return nil, fmt.Errorf("video operation finished without a video")
		}
		next.VideoURI = updated.Response.GeneratedVideos[0].Video.URI
	}
	return next, nil
}

// FetchVideo - 완료된 비디오 바이너리 다운로드
// URI에 API 키를 붙여 직접 GET (Files API 다운로드 규약)
func (c *Client) FetchVideo(ctx context.Context, op *VideoOperation) ([]byte, error) {
	if op.VideoURI == "" {
		return nil, fmt.Errorf("video operation has no URI")
	}

	uri := op.VideoURI
	if strings.Contains(uri, "?") {
		uri += "&key=" + op.apiKey
	} else {
		uri += "?key=" + op.apiKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("video fetch error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// GenerateBackground - 텍스트 프롬프트로 배경 이미지 한 장 생성 (Imagen)
func (c *Client) GenerateBackground(ctx context.Context, promptText, aspectRatio string) ([]byte, string, error) {
	apiKeys := c.cfg.GeminiAPIKeys
	if len(apiKeys) == 0 {
		return nil, "", fmt.Errorf("no API keys provided")
	}

	imagenCfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio,
	}

	var lastErr error
	for keyIndex, apiKey := range apiKeys {
		client, err := c.newGenAI(ctx, apiKey)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := client.Models.GenerateImages(ctx, c.cfg.GeminiImagenModel, promptText, imagenCfg)
		if err == nil {
			if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
				return nil, "", fmt.Errorf("no image data in Imagen response")
			}
			img := resp.GeneratedImages[0].Image
			mimeType := img.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return img.ImageBytes, mimeType, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if !IsRetryable(err) {
			return nil, "", err
		}
		log.Printf("⚠️  [Gemini] Imagen failed on key #%d, trying next key...", keyIndex+1)
	}
	return nil, "", fmt.Errorf("background generation failed on all keys, last error: %w", lastErr)
}

// GenerateText - 짧은 텍스트 생성 (모델 사진 조명 분석 등 내부 용도)
func (c *Client) GenerateText(ctx context.Context, promptText string, image []byte, mimeType string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(promptText)}
	if len(image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image, mimeType))
	}
	content := &genai.Content{Parts: parts, Role: genai.RoleUser}

	result, err := c.generateContent(ctx, c.cfg.GeminiTextModel, []*genai.Content{content}, &genai.GenerateContentConfig{}, nil)
	if err != nil {
		return "", err
	}
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no text in Gemini response")
}
