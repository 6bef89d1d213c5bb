package prompt

import (
	"fmt"
	"strings"

	"virtual-studio-server/modules/catalog"
)

// compileApparel - 표준 의류 촬영 템플릿
// 이미지 순서: [모델?, 의류(+뒷면/디테일)..., 커스텀 배경?]
func compileApparel(p *ApparelParams) ([]Segment, error) {
	if p.Output == OutputVideo && !p.HasModel() {
		return nil, NewValidationError("A model must be selected to generate a video.")
	}
	if len(p.Apparel) == 0 {
		return nil, NewValidationError("At least one apparel item is required.")
	}

	c := p.Controls
	var b strings.Builder
	var images []Segment

	b.WriteString("**APPAREL PHOTOSHOOT DIRECTIVE**\n\n**PRIMARY GOAL:** Create a photorealistic image of a model wearing the provided apparel in a scene, based on the following detailed instructions.\n\n---")

	// 1. 모델 - 업로드 사진 / 카탈로그 설명 / 직접 입력 설명 중 정확히 하나
	switch {
	case p.UploadedModelImage != "":
		b.WriteString("\n**1. MODEL IDENTITY (Source: First Image)**\n- **FACE & BODY (CRITICAL):** Recreate the person from the first image with perfect accuracy.\n- **IGNORE:** Ignore any clothing, background, or pose in the reference image.\n")
		model, err := imageFromDataURL(p.UploadedModelImage, "uploaded model image")
		if err != nil {
			return nil, err
		}
		images = append(images, model)
	case len(p.SelectedModels) > 0:
		fmt.Fprintf(&b, "\n**1. MODEL IDENTITY (Source: Text Description)**\n- **MISSION:** Generate a model that perfectly and exclusively matches this description: %s.\n", p.SelectedModels[0].Description)
	case trimmed(p.PromptedModelDescription) != "":
		fmt.Fprintf(&b, "\n**1. MODEL IDENTITY (Source: Text Description)**\n- **MISSION:** Generate a model that perfectly and exclusively matches this description: %s.\n", p.PromptedModelDescription)
	default:
		return nil, NewValidationError("No model specified for apparel prompt generation.")
	}

	// 2. 의류 - 안쪽 레이어부터 바깥쪽 순서
	b.WriteString("\n**2. APPAREL (Source: Subsequent Images)**\n- **MISSION:** The model must wear the following item(s) of clothing provided in the subsequent images. The items are listed from innermost to outermost layer. The AI must accurately represent the style, color, pattern, and graphics of each item.\n")
	for i, item := range p.Apparel {
		desc := item.Description
		if desc == "" {
			desc = fmt.Sprintf("Apparel item %d", i+1)
		}
		fmt.Fprintf(&b, "- **Item %d:** %s. Use the provided image for this item as the definitive reference.\n", i+1, desc)
		if item.BackViewBase64 != "" {
			b.WriteString("  - A back view image is also provided for 360-degree accuracy.\n")
		}
		if item.DetailViewBase64 != "" {
			b.WriteString("  - A detail view image is also provided for texture and small features.\n")
		}
	}
	b.WriteString("\n")

	for i, item := range p.Apparel {
		img, err := imageFromDataURL(item.Base64, fmt.Sprintf("apparel item %d", i+1))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		if item.BackViewBase64 != "" {
			back, err := imageFromDataURL(item.BackViewBase64, fmt.Sprintf("apparel item %d back view", i+1))
			if err != nil {
				return nil, err
			}
			images = append(images, back)
		}
		if item.DetailViewBase64 != "" {
			detail, err := imageFromDataURL(item.DetailViewBase64, fmt.Sprintf("apparel item %d detail view", i+1))
			if err != nil {
				return nil, err
			}
			images = append(images, detail)
		}
	}

	// 3. 포즈 & 스타일링
	b.WriteString("**3. POSE & STYLING (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **POSE (Body Language):** The model must be positioned exactly as described: %s.\n", c.ShotType.Description)
	fmt.Fprintf(&b, "- **EXPRESSION:** The model's facial expression must be: %s.\n", c.Expression.Description)
	if h := trimmed(c.HairStyle); h != "" {
		fmt.Fprintf(&b, "- **HAIR:** The model's hair is styled as: %q.\n", h)
	}
	if m := trimmed(c.MakeupStyle); m != "" {
		fmt.Fprintf(&b, "- **MAKEUP:** The model's makeup is a %q look.\n", m)
	}
	if g := trimmed(c.GarmentStyling); g != "" {
		fmt.Fprintf(&b, "- **GARMENT STYLING:** The clothing should be styled as follows: %s.\n", g)
	}
	if c.Fabric.ID != catalog.DefaultFabricID {
		fmt.Fprintf(&b, "- **FABRIC TEXTURE:** The primary garment(s) should have the texture of %s\n", c.Fabric.Description)
	}
	b.WriteString("\n")

	// 4. 씬 & 조명 - 시간대가 설정되면 기본 조명 설명을 통째로 대체
	// 다이내믹 조명 프리셋은 원본 모델 사진의 조명 설명을 따라감
	var lighting string
	tod, hasTOD, err := timeOfDaySentence(p.Scene)
	if err != nil {
		return nil, err
	}
	switch {
	case hasTOD:
		lighting = tod
	case p.Scene.Lighting.IsDynamic && p.ModelLightingDescription != "":
		lighting = fmt.Sprintf("Match the lighting style from the original model's photo, which is described as: %q.", p.ModelLightingDescription)
	default:
		lighting = fmt.Sprintf("Apply %s.", p.Scene.Lighting.Description)
	}
	lighting += directionQualityLines(c.LightingDirection, c.LightQuality)
	lighting += catchlightLine(c.CatchlightStyle)
	lighting += cohesionApparel

	b.WriteString("**4. SCENE & LIGHTING (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **BACKGROUND:** The scene is set %s.\n", backgroundSentence(p.Scene.Background, false))
	fmt.Fprintf(&b, "- **LIGHTING (CRITICAL):** %s\n", lighting)
	b.WriteString(sceneExtraLines(p.Scene))
	b.WriteString("\n")

	images, err = appendCustomBackground(images, p.Scene)
	if err != nil {
		return nil, err
	}

	// 5. 카메라 & 렌즈
	b.WriteString(cameraBlock("5", c.CameraAngle, c.Aperture, c.FocalLength))

	// 6. 최종 스타일 & 품질
	b.WriteString(styleBlock(styleBlockInput{
		Section:          "6",
		AspectRatio:      p.AspectRatio,
		QualityLine:      qualityApparel,
		StyleDescription: p.StyleDescription,
		StyleStrength:    c.StyleStrength,
		ColorGrade:       c.ColorGrade,
		Cinematic:        c.CinematicLook,
		CinematicLine:    cinematicApparel,
		HyperRealism:     c.IsHyperRealismEnabled,
		HyperRealismLine: hyperRealismApparel,
	}))

	// 7. 애니메이션 (비디오 전용)
	if p.Output == OutputVideo && p.Animation != nil {
		fmt.Fprintf(&b, "\n**7. ANIMATION (Source: User Settings)**\n- **ACTION:** The model should perform the following subtle animation: %s. The animation should be a seamless, looping 3-second video clip. The background should remain mostly static.\n", p.Animation.Description)
	}

	return append([]Segment{TextSegment(b.String())}, images...), nil
}
