package prompt

import (
	"fmt"
	"strings"
)

// compileReimagine - 소스 사진의 의상/포즈를 고정하고 모델/배경만 교체
// 새 모델 사진, 새 모델 설명, 새 배경 설명 중 하나는 반드시 있어야 함
func compileReimagine(p *ReimagineParams) ([]Segment, error) {
	newModelDesc := trimmed(p.Controls.NewModelDescription)
	newBackgroundDesc := trimmed(p.Controls.NewBackgroundDescription)

	if p.NewModelPhoto == "" && newModelDesc == "" && newBackgroundDesc == "" {
		return nil, NewValidationError("Please describe or upload a new model, or describe a new background.")
	}

	var b strings.Builder
	b.WriteString("**PHOTO RE-IMAGINE DIRECTIVE**\n\n")
	b.WriteString("**PRIMARY GOAL:** You are an expert photo editor. You are provided with a source image and other assets. Your mission is to generate a new, photorealistic image by editing the source image according to the instructions below.\n\n")
	b.WriteString("**NON-NEGOTIABLE CORE RULE:** You MUST preserve the **exact outfit** (all clothing items, colors, and styles) and the **exact pose** of the person from the source image. This is the highest priority.\n\n")
	b.WriteString("---\n**1. ASSET ANALYSIS (CRITICAL)**\n")
	b.WriteString("- **FIRST IMAGE (SOURCE PHOTO):** This is the source of truth for the **OUTFIT** and **POSE**.\n")
	if p.NewModelPhoto != "" {
		b.WriteString("- **SECOND IMAGE (NEW MODEL REFERENCE):** This is the source of truth for the new person's **FACE and IDENTITY**.\n")
	}
	b.WriteString("---\n**2. EDITING INSTRUCTIONS**\n")

	if p.NewModelPhoto != "" {
		b.WriteString("- **MODEL SWAP BY PHOTO (CRITICAL):** Replace the person in the SOURCE PHOTO with the person from the NEW MODEL REFERENCE. You must transfer the face and identity from the NEW MODEL REFERENCE with perfect accuracy. The new person MUST be in the exact same pose and be wearing the exact same outfit as the person in the SOURCE PHOTO.\n")
		if newModelDesc != "" {
			fmt.Fprintf(&b, "- **MODEL STYLING (GUIDANCE):** After swapping the model, apply this additional styling guidance: %q.\n", newModelDesc)
		}
	} else if newModelDesc != "" {
		fmt.Fprintf(&b, "- **MODEL SWAP BY DESCRIPTION (CRITICAL):** Replace the person in the source image with a new person who perfectly matches this description: %q. The new person MUST be in the exact same pose and be wearing the exact same outfit as the person in the original image.\n", newModelDesc)
	} else {
		b.WriteString("- **MODEL PRESERVATION:** The person from the source image should be preserved with 100% accuracy.\n")
	}

	if newBackgroundDesc != "" {
		fmt.Fprintf(&b, "- **BACKGROUND SWAP (CRITICAL):** Replace the background of the source image with a new, photorealistic scene that perfectly matches this description: %q. The person, their pose, and their outfit must be seamlessly integrated into this new background with realistic lighting and shadows.\n", newBackgroundDesc)
	} else {
		b.WriteString("- **BACKGROUND PRESERVATION:** The background from the source image should be preserved.\n")
	}

	b.WriteString("\n---\n**3. FINAL IMAGE STYLE & QUALITY**\n")
	fmt.Fprintf(&b, "- **ASPECT RATIO (CRITICAL):** The final image output MUST have an aspect ratio of exactly %s.\n", p.AspectRatio)
	b.WriteString("- **QUALITY:** This is a professional photoshoot. The final output must be an ultra-high-quality, hyperrealistic, and tack-sharp photograph.\n")
	if p.StyleDescription != "" {
		fmt.Fprintf(&b, "- **STYLISTIC GOAL:** The final image must match the artistic style described as: %q.\n", p.StyleDescription)
	}

	segments := []Segment{TextSegment(b.String())}

	// 소스 사진이 먼저, 새 모델 사진이 그 다음
	source, err := imageFromDataURL(p.SourcePhoto, "source photo")
	if err != nil {
		return nil, err
	}
	segments = append(segments, source)

	if p.NewModelPhoto != "" {
		model, err := imageFromDataURL(p.NewModelPhoto, "new model photo")
		if err != nil {
			return nil, err
		}
		segments = append(segments, model)
	}

	return segments, nil
}
