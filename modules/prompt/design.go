package prompt

import (
	"fmt"
	"strings"

	"virtual-studio-server/modules/catalog"
)

// sizeDescriptor - 스케일 값을 실물 프린트 크기 설명으로 변환
func sizeDescriptor(scale float64) string {
	switch {
	case scale < 20:
		return "very small, like a tag-sized logo (approx 1-2 inches wide)"
	case scale < 40:
		return "small, like a standard chest logo (approx. 3-4 inches wide)"
	case scale < 70:
		return "medium, as a standard graphic for the front of a t-shirt (approx. 8-10 inches wide)"
	case scale < 100:
		return "large, covering a significant portion of the chest area (approx. 11-12 inches wide)"
	default:
		return "extra-large, as an oversized or full-front print covering most of the printable area of the garment"
	}
}

// compileDesign - 목업 + 디자인 이미지로 프로페셔널 목업 생성
// ShotView가 "back"이면 뒷면 디자인/배치 설정을 사용하고 뒷면 뷰를 렌더링함
func compileDesign(p *DesignParams) ([]Segment, error) {
	c := p.Controls
	isBack := p.ShotView == "back"

	activeDesign := p.DesignImage
	if isBack && p.BackDesignImage != "" {
		activeDesign = p.BackDesignImage
	}
	placement := c.Front
	if isBack {
		placement = c.Back
	}

	fabricStyle := catalog.OptionName(catalog.FabricStyleOptions, c.FabricStyle, "standard cotton")
	mockupStyle := catalog.OptionName(catalog.MockupStyleOptions, c.MockupStyle, "hanging")
	lightingStyle := catalog.OptionName(catalog.DesignLightingStyleOptions, c.LightingStyle, "studio softbox lighting")
	printStyle := catalog.OptionName(catalog.PrintStyleOptions, c.PrintStyle, "screen printed")
	placementName := catalog.OptionName(catalog.DesignPlacementOptions, placement.Placement, "center")
	cameraAngleName := catalog.OptionName(catalog.DesignCameraAngleOptions, c.CameraAngle, "eye-level front view")

	cameraAnglePrompt := fmt.Sprintf("The photograph is shot from a %s.", cameraAngleName)
	if c.CameraAngle == catalog.DesignDetailCameraAngleID {
		cameraAnglePrompt = fmt.Sprintf("**CAMERA ANGLE (CRITICAL DETAIL SHOT):** The photograph is an extreme close-up, tightly framed *only* on the design area. The design should fill most of the frame. Show the intricate details of the %q print style on the fabric texture.", printStyle)
	} else if isBack {
		cameraAnglePrompt += " This is a view of the BACK of the garment."
	}

	var mockup strings.Builder
	mockup.WriteString("**MOCKUP & MATERIAL (Based on the FIRST reference image):**\n")
	fmt.Fprintf(&mockup, "- **Apparel Style (CRITICAL):** The final image must represent a garment that perfectly matches this detailed description: %q. This description defines the complete look, including the cut, style, and any color patterns (like color blocking).\n", c.ApparelType)
	fmt.Fprintf(&mockup, "- **Base Color:** The garment's primary color should be this hex code: %s. However, the text description above is the priority and overrides this color if specific colors or patterns are mentioned.\n", c.ShirtColor)
	fmt.Fprintf(&mockup, "- **Fabric Type:** The garment must look like it's made of %s. Pay attention to the texture and weight.\n", fabricStyle)
	fmt.Fprintf(&mockup, "- **Presentation Style:** The garment should be presented in a professional %s style.", mockupStyle)
	if isBack {
		mockup.WriteString("\n- **VIEWPOINT (MANDATORY):** You are generating a photograph of the **BACK** of the garment. The provided MOCKUP image is a reference for the garment's general style, color, and material ONLY. You must creatively render the back view of this garment based on the front view provided.")
	} else {
		mockup.WriteString("\n- The overall shape, fit, and wrinkles should be inspired by the provided MOCKUP image.")
	}

	var design strings.Builder
	design.WriteString("**DESIGN & PLACEMENT (Based on the SECOND reference image):**")
	if isBack {
		design.WriteString("\n- **Design Application (CRITICAL BACK VIEW):** The artwork provided in the DESIGN image is the **BACK PRINT**. You MUST place this design on the **BACK** of the garment you are generating. Do not place this design on the front.")
	} else {
		design.WriteString("\n- **Design Application (FRONT VIEW):** Take the artwork from the DESIGN image and place it on the **FRONT** of the garment.")
	}
	fmt.Fprintf(&design, "\n- **Print Style:** The design should look like it was applied using a %q method. It needs to have the correct texture and finish (e.g., flat for screen print, textured for embroidery).", printStyle)
	fmt.Fprintf(&design, "\n- **Placement (CRITICAL):** The design must be placed on the **%s** of the garment, centered on the **%s** area.", p.ShotView, placementName)
	fmt.Fprintf(&design, "\n- **Size (CRITICAL):** The final printed size of the design on the garment must be **%s**. The provided DESIGN image should be scaled appropriately to achieve this size.", sizeDescriptor(placement.Scale))
	design.WriteString("\n- **Fine-Tuning Adjustments (Apply AFTER placement and sizing):**")
	fmt.Fprintf(&design, "\n    - **Rotation:** After placing and sizing, rotate the design by exactly %.0f degrees.", placement.Rotation)
	fmt.Fprintf(&design, "\n    - **Offset:** After rotating, nudge the design horizontally by %.0f%% of the garment's width and vertically by %.0f%% of the garment's height. (A negative horizontal offset moves it left, a negative vertical offset moves it up).", placement.OffsetX, placement.OffsetY)
	conform := "NOT "
	if c.WrinkleConform {
		conform = ""
	}
	fmt.Fprintf(&design, "\n- **Realism:** The design must blend realistically with the fabric. It should have a %d%% blend with the underlying fabric texture. It must %sconform to the fabric's wrinkles, folds, lighting, and shadows.", c.FabricBlend, conform)

	var background string
	if p.Scene.Background.Type == "image" {
		background = fmt.Sprintf("The garment is photographed within a realistic %s environment. **CRITICAL PHOTOGRAPHY STYLE:** The background MUST be artistically blurred (bokeh), creating a shallow depth-of-field effect. The mockup itself must be the only sharp object in focus.", strings.ToLower(p.Scene.Background.Name))
	} else {
		background = fmt.Sprintf("The garment should be set against a clean, simple %s studio background. The background color/gradient should be subtle and complement the t-shirt.", strings.ToLower(p.Scene.Background.Name))
	}

	var b strings.Builder
	b.WriteString("**PROFESSIONAL MOCKUP GENERATION**\n")
	b.WriteString("**PRIMARY GOAL:** You are provided with two reference images: a MOCKUP of a blank garment, and a DESIGN to be placed on it. Your critical mission is to generate a new, ultra-photorealistic product photograph of the garment with the design applied, based on the following detailed instructions.\n\n")
	b.WriteString(mockup.String())
	b.WriteString("\n\n")
	b.WriteString(design.String())
	b.WriteString("\n\n**PHOTOGRAPHY & SCENE:**\n")
	fmt.Fprintf(&b, "- **Lighting:** The scene must be lit with %s.\n", lightingStyle)
	fmt.Fprintf(&b, "- **Camera Angle:** %s\n", cameraAnglePrompt)
	fmt.Fprintf(&b, "- **Background:** %s\n", background)
	b.WriteString("\n**FINAL IMAGE STYLE & QUALITY:**\n")
	fmt.Fprintf(&b, "- **Aspect Ratio (CRITICAL):** The final image output MUST have an aspect ratio of exactly %s.\n", p.AspectRatio)
	b.WriteString("- **Quality:** The final output must be an ultra-high-quality, hyperrealistic, and tack-sharp photograph, indistinguishable from a real product photo shot for a high-end e-commerce brand.\n")
	if p.StyleDescription != "" {
		fmt.Fprintf(&b, "- **Stylistic Goal:** The final image must match the artistic style described as: %q.\n", p.StyleDescription)
	}

	segments := []Segment{TextSegment(b.String())}

	mockupImg, err := imageFromDataURL(p.MockupImage, "mockup image")
	if err != nil {
		return nil, err
	}
	segments = append(segments, mockupImg)

	designImg, err := imageFromDataURL(activeDesign, "design image")
	if err != nil {
		return nil, err
	}
	segments = append(segments, designImg)

	return segments, nil
}
