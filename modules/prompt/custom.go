package prompt

import (
	"fmt"
	"strings"
)

// customHeader - 커스텀 프롬프트 오버라이드 공통 머리말
// 카탈로그 모델이 선택돼 있으면 모델 컨텍스트를 주입함
func customHeader(selectedModels []AIModel, customPrompt string) string {
	var b strings.Builder
	b.WriteString("**PRIMARY GOAL:** You will receive a text prompt and potentially multiple images (model, product, apparel, background). Your critical mission is to follow the text prompt to create a photorealistic image, using the provided images as assets.\n\n")
	if len(selectedModels) > 0 {
		fmt.Fprintf(&b, "**MODEL CONTEXT:** The person in the final image must be generated to perfectly match this description: %q. Use the provided model reference image (if any) to get the facial identity correct.\n\n", selectedModels[0].Description)
	}
	b.WriteString("**USER PROMPT:**\n")
	b.WriteString(customPrompt)
	return b.String()
}

// compileCustomApparel - 커스텀 프롬프트 오버라이드 (의류 모드)
// 이미지 순서: [모델, 의류들..., 커스텀 배경] - 카탈로그 이미지는 포함하지 않음
func compileCustomApparel(p *ApparelParams) ([]Segment, error) {
	segments := []Segment{TextSegment(customHeader(p.SelectedModels, p.Controls.CustomPrompt))}

	if p.UploadedModelImage != "" {
		model, err := imageFromDataURL(p.UploadedModelImage, "uploaded model image")
		if err != nil {
			return nil, err
		}
		segments = append(segments, model)
	}

	for i, item := range p.Apparel {
		img, err := imageFromDataURL(item.Base64, fmt.Sprintf("apparel item %d", i+1))
		if err != nil {
			return nil, err
		}
		segments = append(segments, img)
	}

	return appendCustomBackground(segments, p.Scene)
}

// compileCustomProduct - 커스텀 프롬프트 오버라이드 (제품 모드)
// 이미지 순서: [모델, 제품, 커스텀 배경]
func compileCustomProduct(p *ProductParams) ([]Segment, error) {
	segments := []Segment{TextSegment(customHeader(p.SelectedModels, p.Controls.CustomPrompt))}

	if p.UploadedModelImage != "" {
		model, err := imageFromDataURL(p.UploadedModelImage, "uploaded model image")
		if err != nil {
			return nil, err
		}
		segments = append(segments, model)
	}

	if p.ProductImage != "" {
		product, err := imageFromDataURL(p.ProductImage, "product image")
		if err != nil {
			return nil, err
		}
		segments = append(segments, product)
	}

	return appendCustomBackground(segments, p.Scene)
}
