package prompt

import (
	"fmt"
	"sort"
	"strings"

	"virtual-studio-server/modules/catalog"
)

// compileOnModelProduct - 모델이 선택된 제품 촬영 (제품 이미지 필수)
// 이미지 순서: [모델?, 제품, 커스텀 배경?]
func compileOnModelProduct(p *ProductParams) ([]Segment, error) {
	if p.ProductImage == "" {
		return nil, NewValidationError("Product image is required for an on-model shot.")
	}

	c := p.Controls

	interaction := c.ModelInteractionType.Description
	if c.ModelInteractionType.ID == catalog.CustomID {
		interaction = trimmed(c.CustomModelInteraction)
		if interaction == "" {
			interaction = "holding the product in their hands, presenting it towards the camera."
		}
	} else if interaction == "" {
		interaction = "interacting with the product."
	}

	var b strings.Builder
	var images []Segment

	b.WriteString("**ON-MODEL PRODUCT PHOTOSHOOT DIRECTIVE**\n\n**PRIMARY GOAL:** Create a photorealistic image of a model interacting with a product based on the provided assets and detailed instructions.\n\n---")

	// 1. 모델
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
		return nil, NewValidationError("No model specified for on-model product prompt generation.")
	}

	// 2. 제품 & 인터랙션
	fmt.Fprintf(&b, "\n**2. PRODUCT & INTERACTION (Source: Second Image + User Settings)**\n- **PRODUCT:** The image features the product from the second image.\n- **INTERACTION (CRITICAL):** The model must be interacting with the product as follows: %s.\n", interaction)
	product, err := imageFromDataURL(p.ProductImage, "product image")
	if err != nil {
		return nil, err
	}
	images = append(images, product)

	// 3. 포즈
	fmt.Fprintf(&b, "\n**3. POSE (Source: User Settings)**\n- **POSE (Body Language):** The model must be positioned exactly as described: %s.\n- **EXPRESSION:** The model's facial expression must be: %s.\n", c.ShotType.Description, c.Expression.Description)

	// 4. 씬 & 조명
	lighting := fmt.Sprintf("Apply %s.", p.Scene.Lighting.Description)
	lighting += directionQualityLines(c.LightingDirection, c.LightQuality)
	lighting += catchlightLine(c.CatchlightStyle)
	lighting += cohesionOnModel

	fmt.Fprintf(&b, "\n**4. SCENE & LIGHTING (Source: User Settings)**\n- **BACKGROUND:** The scene is set %s.\n- **LIGHTING (CRITICAL):** %s\n", backgroundSentence(p.Scene.Background, false), lighting)

	// 5. 카메라 & 렌즈
	fmt.Fprintf(&b, "\n**5. CAMERA & LENS (Source: User Settings)**\n- **CAMERA ANGLE:** %s.\n- **APERTURE:** %s.\n- **FOCAL LENGTH:** %s.\n", c.CameraAngle.Description, c.Aperture.Description, c.FocalLength.Description)

	// 6. 최종 스타일 & 품질
	b.WriteString("\n")
	b.WriteString(styleBlock(styleBlockInput{
		Section:          "6",
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

	// 7. 애니메이션 (비디오 전용)
	if p.Output == OutputVideo && p.Animation != nil {
		fmt.Fprintf(&b, "\n**7. ANIMATION (Source: User Settings)**\n- **ACTION:** The model should perform the following subtle animation while interacting with the product: %s. The animation should be a seamless, looping 3-second video clip. The background should remain mostly static.\n", p.Animation.Description)
	}

	images, err = appendCustomBackground(images, p.Scene)
	if err != nil {
		return nil, err
	}

	return append([]Segment{TextSegment(b.String())}, images...), nil
}

// compileStagedProduct - 모델 없이 스테이징 캔버스 에셋만으로 제품 촬영
// 주 제품(ID "product")이 이미지 목록 맨 앞에 오도록 정렬함
func compileStagedProduct(p *ProductParams) ([]Segment, error) {
	if len(p.StagedAssets) == 0 {
		return nil, NewValidationError("No product assets specified for prompt generation.")
	}

	c := p.Controls

	// 조명 - 시간대가 설정되면 방향/광질 라인 없이 canned 문장만 사용
	var lighting string
	tod, hasTOD, err := timeOfDaySentence(p.Scene)
	if err != nil {
		return nil, err
	}
	if hasTOD {
		lighting = tod
	} else {
		lighting = fmt.Sprintf("Apply %s.", p.Scene.Lighting.Description)
		lighting += directionQualityLines(c.LightingDirection, c.LightQuality)
	}
	lighting += catchlightLine(c.CatchlightStyle)
	lighting += cohesionStaged

	var b strings.Builder
	b.WriteString("**PRODUCT PHOTOSHOOT DIRECTIVE**\n\n**PRIMARY GOAL:** Create a photorealistic image of a product staged in a scene, based on the provided assets and detailed instructions.\n\n---")

	// 1. 제품 & 스테이징
	b.WriteString("\n**1. PRODUCT & STAGING (Source: Images + User Settings)**\n")
	var hasProduct bool
	var companions int
	for _, a := range p.StagedAssets {
		if a.ID == "product" {
			hasProduct = true
		} else {
			companions++
		}
	}
	if hasProduct {
		fmt.Fprintf(&b, "- **PRIMARY PRODUCT:** The main product is shown in the first provided image. It should be rendered with a material that looks like %s\n", c.ProductMaterial.Description)
	}
	if companions > 0 {
		fmt.Fprintf(&b, "- **COMPANION ASSETS:** The scene also includes %d other item(s), provided in subsequent images.\n", companions)
	}
	b.WriteString("- **COMPOSITION:** The assets must be arranged as follows, described by their center coordinates and scale relative to the canvas: ")
	for _, a := range p.StagedAssets {
		fmt.Fprintf(&b, "Asset '%s' is at (x: %.0f%%, y: %.0f%%) with a scale of %.0f%% and z-index of %d. ", a.ID, a.X, a.Y, a.Scale, a.Z)
	}
	b.WriteString("\n")

	// 2. 씬 & 환경
	b.WriteString("\n**2. SCENE & ENVIRONMENT (Source: User Settings)**\n")
	fmt.Fprintf(&b, "- **SURFACE:** The product is placed on a surface that looks like %s\n", c.Surface.Description)
	fmt.Fprintf(&b, "- **BACKGROUND:** The scene is set %s.\n", backgroundSentence(p.Scene.Background, true))
	fmt.Fprintf(&b, "- **LIGHTING (CRITICAL):** %s\n", lighting)
	if c.ProductShadow != "" && c.ProductShadow != "None" {
		fmt.Fprintf(&b, "- **SHADOW:** The product must cast a %s shadow.\n", strings.ToLower(c.ProductShadow))
	}
	if props := trimmed(c.CustomProps); props != "" {
		fmt.Fprintf(&b, "- **PROPS:** The scene must also include: %s.\n", props)
	}
	if effects := trimmed(p.Scene.EnvironmentalEffects); effects != "" {
		fmt.Fprintf(&b, "- **EFFECTS:** The scene should have these atmospheric effects: %s.\n", effects)
	}
	b.WriteString("\n")

	// 3. 카메라 & 렌즈
	b.WriteString(cameraBlock("3", c.CameraAngle, c.Aperture, c.FocalLength))

	// 4. 최종 스타일 & 품질
	b.WriteString(styleBlock(styleBlockInput{
		Section:          "4",
		AspectRatio:      p.AspectRatio,
		QualityLine:      qualityProduct,
		StyleDescription: p.StyleDescription,
		StyleStrength:    c.StyleStrength,
		ColorGrade:       c.ColorGrade,
		Cinematic:        c.CinematicLook,
		CinematicLine:    cinematicProduct,
		HyperRealism:     c.IsHyperRealismEnabled,
		HyperRealismLine: hyperRealismStaged,
	}))

	// 5. 애니메이션 (비디오 전용)
	if p.Output == OutputVideo && p.Animation != nil {
		fmt.Fprintf(&b, "\n**5. ANIMATION (Source: User Settings)**\n- **ACTION:** The product should be animated as follows: %s. Common product animations include a slow 360-degree turntable spin or a gentle light sweep across the surface. The animation should be a seamless, looping 3-second video clip. The background should remain static.\n", p.Animation.Description)
	}

	segments := []Segment{TextSegment(b.String())}

	// 주 제품 우선 정렬 (그 외 에셋의 상대 순서는 유지)
	sorted := make([]StagedAsset, len(p.StagedAssets))
	copy(sorted, p.StagedAssets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID == "product" && sorted[j].ID != "product"
	})
	for i, a := range sorted {
		img, err := imageFromDataURL(a.Base64, fmt.Sprintf("staged asset %d (%s)", i+1, a.ID))
		if err != nil {
			return nil, err
		}
		segments = append(segments, img)
	}

	return appendCustomBackground(segments, p.Scene)
}
