package studio

import (
	"context"
	"log"
	"strings"

	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// GenerateAIBackground - 텍스트 설명으로 배경 이미지를 만들어 씬에 적용
// 생성된 배경은 커스텀 이미지 배경으로 교체됨
func (e *Engine) GenerateAIBackground(ctx context.Context, promptText string) error {
	promptText = strings.TrimSpace(promptText)
	if promptText == "" {
		err := prompt.NewValidationError("Please describe the background you want to generate.")
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}

	e.apply(func(s *State) {
		s.IsGeneratingBackground = true
		s.Error = ""
	})
	defer e.apply(func(s *State) {
		s.IsGeneratingBackground = false
	})

	data, mimeType, err := e.gateway.GenerateBackground(ctx, promptText, "16:9")
	if err != nil {
		log.Printf("❌ [Studio] Session %s: AI background failed: %v", e.ID, err)
		e.apply(func(s *State) {
			s.Error = "Failed to generate AI background. " + err.Error()
		})
		return err
	}

	name := "AI: " + promptText
	if runes := []rune(promptText); len(runes) > 20 {
		name = "AI: " + string(runes[:20]) + "..."
	}
	dataURL := utils.ToDataURL(data, mimeType)

	e.apply(func(s *State) {
		s.Scene.Background = prompt.BackgroundRef{
			ID:    catalog.CustomID,
			Name:  name,
			Type:  "image",
			Value: dataURL,
		}
	})
	log.Printf("✅ [Studio] Session %s: AI background applied (%q)", e.ID, name)
	return nil
}

// AnalyzeModelLighting - 업로드된 모델 사진의 조명을 분석해 설명을 저장
// 다이내믹 조명 프리셋이 이 설명을 참조함
func (e *Engine) AnalyzeModelLighting(ctx context.Context) error {
	snap := e.Snapshot()
	if snap.UploadedModelImage == "" {
		return prompt.NewValidationError("Upload a model photo before analyzing its lighting.")
	}

	data, mimeType, err := utils.ParseDataURL(snap.UploadedModelImage)
	if err != nil {
		return &prompt.MalformedInputError{Field: "uploaded model image", Err: err}
	}

	description, err := e.gateway.GenerateText(ctx,
		"Describe the lighting in this photo in one concise sentence, covering direction, quality, and color temperature. Respond with the description only.",
		data, mimeType)
	if err != nil {
		log.Printf("⚠️ [Studio] Session %s: lighting analysis failed: %v", e.ID, err)
		return err
	}

	e.apply(func(s *State) {
		s.ModelLightingDescription = strings.TrimSpace(description)
	})
	log.Printf("🔍 [Studio] Session %s: model lighting analyzed", e.ID)
	return nil
}
