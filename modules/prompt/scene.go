package prompt

import (
	"fmt"
	"strings"

	"virtual-studio-server/modules/catalog"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// 조명 일관성 마무리 문장 - 브랜치마다 문구가 다름
const (
	cohesionApparel       = " The model, apparel, and background must all be lit from the same light source and direction to create a cohesive and realistic photograph."
	cohesionProductRepose = " The model, product, and background must all be lit from the same light source and direction for a cohesive photograph."
	cohesionOnModel       = " The model, product, and background must all be lit from the same source for a cohesive photograph."
	cohesionStaged        = " The product and background must all be lit from the same light source and direction to create a cohesive and realistic photograph."
)

// backgroundSentence - "The scene is set ..." 뒤에 붙는 배경 구문
// 커스텀 업로드 배경이면 마지막 이미지를 참조하라고 지시함
func backgroundSentence(bg BackgroundRef, onSurface bool) string {
	if bg.IsCustomImage() {
		return "in the environment depicted in the FINAL image provided"
	}
	if bg.Type == "image" {
		return "in a photorealistic " + bg.Name
	}
	if onSurface {
		return "on a clean surface against a simple studio background with a " + strings.ToLower(bg.Name) + " color."
	}
	return "against a simple studio background with a " + strings.ToLower(bg.Name) + " color."
}

// timeOfDaySentence - 시간대 canned 문장 조회
// 설정됐지만 알 수 없는 값이면 ValidationError
func timeOfDaySentence(scene Scene) (string, bool, error) {
	if scene.TimeOfDay == "" {
		return "", false, nil
	}
	sentence, ok := catalog.TimeOfDayDescriptions[scene.TimeOfDay]
	if !ok {
		return "", false, NewValidationError("Unknown time of day: %q.", scene.TimeOfDay)
	}
	return sentence, true, nil
}

// directionQualityLines - 광원 방향/광질 문장. 기본값 ID면 생략
func directionQualityLines(direction, quality catalog.Option) string {
	var b strings.Builder
	if direction.ID != catalog.DefaultLightingDirectionID {
		fmt.Fprintf(&b, " The main light source is positioned %s.", direction.Description)
	}
	if quality.ID != catalog.DefaultLightQualityID {
		fmt.Fprintf(&b, " The light quality is %s.", quality.Description)
	}
	return b.String()
}

// catchlightLine - 캐치라이트 문장. 항상 포함
func catchlightLine(catchlight catalog.Option) string {
	return fmt.Sprintf(" The final image should feature %s.", catchlight.Description)
}

// sceneExtraLines - 소품/대기 효과 라인
func sceneExtraLines(scene Scene) string {
	var b strings.Builder
	if p := trimmed(scene.SceneProps); p != "" {
		fmt.Fprintf(&b, "- **PROPS:** The scene must include: %s.\n", p)
	}
	if e := trimmed(scene.EnvironmentalEffects); e != "" {
		fmt.Fprintf(&b, "- **EFFECTS:** The scene should have these atmospheric effects: %s.\n", e)
	}
	return b.String()
}

// cameraBlock - 카메라/렌즈 섹션
func cameraBlock(section string, angle, aperture, focal catalog.Option) string {
	return fmt.Sprintf(
		"**%s. CAMERA & LENS (Source: User Settings)**\n- **CAMERA ANGLE:** %s.\n- **APERTURE:** %s.\n- **FOCAL LENGTH:** %s.\n\n",
		section, angle.Description, aperture.Description, focal.Description)
}

// 품질/시네마틱/하이퍼리얼리즘 문장 - 모드별 변형
const (
	qualityApparel = "- **QUALITY:** This is a professional photoshoot. The final output must be an ultra-high-quality, hyperrealistic, and tack-sharp photograph.\n"
	qualityProduct = "- **QUALITY:** This is a professional product photoshoot. The final output must be an ultra-high-quality, hyperrealistic photograph.\n"

	cinematicApparel = "**CINEMATIC LOOK (ENABLED):** The image must have a cinematic quality, emulating a still from a high-budget film with fine, realistic film grain.\n"
	cinematicProduct = "**CINEMATIC LOOK (ENABLED):** The image must have a cinematic quality, emulating a still from a high-budget film.\n"

	hyperRealismApparel = "**HYPER-REALISM MODE (ENABLED):** Pay extreme attention to micro-details like skin pores, fabric weave, and ensure all anatomy is 100% accurate.\n"
	hyperRealismProduct = "**HYPER-REALISM MODE (ENABLED):** Pay extreme attention to micro-details like skin pores, product textures, and ensure all anatomy is 100% accurate.\n"
	hyperRealismStaged  = "**HYPER-REALISM MODE (ENABLED):** Pay extreme attention to micro-details like product textures, material finishes, and ensure all reflections are realistic.\n"
)

// styleBlockInput - 최종 스타일/품질 섹션 구성
type styleBlockInput struct {
	Section          string
	AspectRatio      string
	QualityLine      string
	StyleDescription string
	StyleStrength    int // 음수면 퍼센트 문구 생략
	ColorGrade       catalog.Option
	Cinematic        bool
	CinematicLine    string
	HyperRealism     bool
	HyperRealismLine string
}

// styleBlock - 최종 스타일/품질 섹션. 종횡비와 품질 라인은 필수
func styleBlock(in styleBlockInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s. FINAL IMAGE STYLE & QUALITY (Source: User Settings)**\n", in.Section)
	fmt.Fprintf(&b, "- **ASPECT RATIO (CRITICAL):** The final image output MUST have an aspect ratio of exactly %s.\n", in.AspectRatio)
	b.WriteString(in.QualityLine)
	if in.StyleDescription != "" {
		if in.StyleStrength >= 0 {
			fmt.Fprintf(&b, "- **STYLISTIC GOAL:** The final image must match the artistic style described as: %q. Apply this style with an influence of approximately %d%%.\n", in.StyleDescription, in.StyleStrength)
		} else {
			fmt.Fprintf(&b, "- **STYLISTIC GOAL:** The final image must match the artistic style described as: %q.\n", in.StyleDescription)
		}
	}
	if in.ColorGrade.ID != catalog.DefaultColorGradeID {
		fmt.Fprintf(&b, "- **COLOR GRADE:** Apply a professional color grade with the following style: %s\n", in.ColorGrade.Description)
	}
	if in.Cinematic {
		b.WriteString(in.CinematicLine)
	}
	if in.HyperRealism {
		b.WriteString(in.HyperRealismLine)
	}
	return b.String()
}
