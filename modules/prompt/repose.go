package prompt

import (
	"fmt"
	"strings"

	"virtual-studio-server/modules/catalog"
)

// compileApparelRepose - base look 이미지의 모델/의상을 고정하고
// 포즈, 씬, 카메라, 스타일만 현재 설정에서 새로 뽑는 일관성 브랜치
func compileApparelRepose(p *ApparelParams) ([]Segment, error) {
	c := p.Controls

	var b strings.Builder
	b.WriteString("**APPAREL RE-POSE DIRECTIVE**\n\n")
	b.WriteString("**PRIMARY GOAL:** You are provided with a reference image of a model wearing a complete outfit. Your critical mission is to generate a new photograph of the *same model* wearing the *exact same outfit*, but with a new pose and in a new scene as described below.\n\n")
	b.WriteString("**NON-NEGOTIABLE RULES:**\n")
	b.WriteString("1.  **IDENTITY & OUTFIT PRESERVATION:** Replicate the model's identity (face, body, hair) and the entire outfit (all clothing, colors, textures) from the reference image with 100% accuracy. Do NOT change the clothing.\n")
	b.WriteString("2.  **SETTINGS ARE LAW:** You MUST follow the new POSE, SCENE, and CAMERA instructions below. These settings override the pose and scene from the reference image.\n\n")
	b.WriteString("---\n**1. MODEL & OUTFIT (Source: First Image)**\n")
	b.WriteString("- **MISSION:** Use the provided image as the definitive source for the model's appearance and their complete wardrobe.\n\n---\n")

	b.WriteString("**2. POSE & STYLING (Source: User Settings)**\n")
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

	lighting := fmt.Sprintf("Apply %s.", p.Scene.Lighting.Description)
	lighting += directionQualityLines(c.LightingDirection, c.LightQuality)
	lighting += catchlightLine(c.CatchlightStyle)
	lighting += cohesionApparel

	b.WriteString("**3. SCENE & LIGHTING (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **BACKGROUND:** The scene is set %s.\n", backgroundSentence(p.Scene.Background, false))
	fmt.Fprintf(&b, "- **LIGHTING (CRITICAL):** %s\n", lighting)
	b.WriteString(sceneExtraLines(p.Scene))
	b.WriteString("\n")

	b.WriteString(cameraBlock("4", c.CameraAngle, c.Aperture, c.FocalLength))

	b.WriteString(styleBlock(styleBlockInput{
		Section:          "5",
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

	segments := []Segment{TextSegment(b.String())}

	base, err := imageFromDataURL(p.BaseLookImage, "base look image")
	if err != nil {
		return nil, err
	}
	segments = append(segments, base)

	return appendCustomBackground(segments, p.Scene)
}

// compileProductRepose - 모델 레퍼런스 이미지의 모델/제품을 고정하는 제품 모드 일관성 브랜치
func compileProductRepose(p *ProductParams) ([]Segment, error) {
	c := p.Controls

	interaction := c.ModelInteractionType.Description
	if c.ModelInteractionType.ID == catalog.CustomID {
		interaction = trimmed(c.CustomModelInteraction)
		if interaction == "" {
			interaction = "holding the product towards the camera."
		}
	} else if interaction == "" {
		interaction = "interacting with the product"
	}

	var b strings.Builder
	b.WriteString("**ON-MODEL PRODUCT RE-POSE DIRECTIVE**\n\n")
	b.WriteString("**PRIMARY GOAL:** You are provided with a reference image of a model with a product. Your critical mission is to generate a new photograph of the *same model* with the *exact same product*, but with a new pose and in a new scene as described below.\n\n")
	b.WriteString("**NON-NEGOTIABLE RULES:**\n")
	b.WriteString("1.  **IDENTITY & PRODUCT PRESERVATION:** Replicate the model's identity (face, body, hair) and the product (including how it's held/worn) from the reference image with 100% accuracy. Do NOT change the product.\n")
	b.WriteString("2.  **SETTINGS ARE LAW:** You MUST follow the new POSE, SCENE, and CAMERA instructions below. These settings override the pose and scene from the reference image.\n\n")
	b.WriteString("---\n**1. MODEL & PRODUCT (Source: First Image)**\n")
	b.WriteString("- **MISSION:** Use the provided image as the definitive source for the model's appearance and the product they are holding/wearing.\n\n---\n")

	b.WriteString("**2. POSE & INTERACTION (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **POSE (Body Language):** The model must be positioned exactly as described: %s.\n", c.ShotType.Description)
	fmt.Fprintf(&b, "- **EXPRESSION:** The model's facial expression must be: %s.\n", c.Expression.Description)
	fmt.Fprintf(&b, "- **PRODUCT INTERACTION:** During the new pose, the model's interaction with the product should be consistent with this description: %s.\n\n", interaction)

	lighting := fmt.Sprintf("Apply %s.", p.Scene.Lighting.Description)
	lighting += directionQualityLines(c.LightingDirection, c.LightQuality)
	lighting += catchlightLine(c.CatchlightStyle)
	lighting += cohesionProductRepose

	b.WriteString("**3. SCENE & LIGHTING (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **BACKGROUND:** The scene is set %s.\n", backgroundSentence(p.Scene.Background, false))
	fmt.Fprintf(&b, "- **LIGHTING (CRITICAL):** %s\n", lighting)
	b.WriteString(sceneExtraLines(p.Scene))
	b.WriteString("\n")

	b.WriteString(cameraBlock("4", c.CameraAngle, c.Aperture, c.FocalLength))

	b.WriteString(styleBlock(styleBlockInput{
		Section:          "5",
		AspectRatio:      p.AspectRatio,
		QualityLine:      qualityProduct,
		StyleDescription: p.StyleDescription,
		StyleStrength:    -1,
		ColorGrade:       c.ColorGrade,
		Cinematic:        c.CinematicLook,
		CinematicLine:    cinematicProduct,
		HyperRealism:     c.IsHyperRealismEnabled,
		HyperRealismLine: hyperRealismProduct,
	}))

	segments := []Segment{TextSegment(b.String())}

	ref, err := imageFromDataURL(p.ModelReferenceImage, "model reference image")
	if err != nil {
		return nil, err
	}
	segments = append(segments, ref)

	return appendCustomBackground(segments, p.Scene)
}

// appendCustomBackground - 커스텀 업로드 배경을 이미지 목록 맨 끝에 추가
// 프롬프트 본문의 "FINAL image provided" 참조와 짝을 이룸
func appendCustomBackground(segments []Segment, scene Scene) ([]Segment, error) {
	if !scene.Background.IsCustomImage() {
		return segments, nil
	}
	bg, err := imageFromDataURL(scene.Background.Value, "custom background image")
	if err != nil {
		return nil, err
	}
	return append(segments, bg), nil
}
