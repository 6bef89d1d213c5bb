package prompt

import "fmt"

// Compile - 스튜디오 파라미터를 명령 세그먼트 시퀀스로 컴파일
//
// 브랜치 우선순위 (첫 매칭 승):
//  1. 리이매진 모드
//  2. 일관성(re-pose) 브랜치 - 의류 base look 이미지 / 제품 모델 레퍼런스 이미지
//  3. 디자인 모드
//  4. 커스텀 프롬프트 오버라이드
//  5. 표준 의류/제품 템플릿
func Compile(params Params) ([]Segment, error) {
	switch p := params.(type) {
	case *ReimagineParams:
		return compileReimagine(p)

	case *ApparelParams:
		if p.BaseLookImage != "" {
			return compileApparelRepose(p)
		}
		if trimmed(p.Controls.CustomPrompt) != "" {
			return compileCustomApparel(p)
		}
		return compileApparel(p)

	case *ProductParams:
		if p.ModelReferenceImage != "" {
			return compileProductRepose(p)
		}
		if trimmed(p.Controls.CustomPrompt) != "" {
			return compileCustomProduct(p)
		}
		if p.HasModel() {
			return compileOnModelProduct(p)
		}
		return compileStagedProduct(p)

	case *DesignParams:
		return compileDesign(p)

	default:
		return nil, fmt.Errorf("unsupported prompt params type %T", params)
	}
}
