package studio

import (
	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/prompt"
)

// pickOption - 팩 샷 오버라이드 ID를 카탈로그에서 찾고, 없으면 현재 설정 유지
func pickOption(options []catalog.Option, id string, current catalog.Option) catalog.Option {
	if id == "" {
		return current
	}
	if o := catalog.FindOption(options, id); o != nil {
		return *o
	}
	return current
}

// overrideApparelControls - 온모델 팩 샷의 컨트롤 적용본
func overrideApparelControls(c prompt.ApparelControls, shot catalog.PackShot) prompt.ApparelControls {
	c.ShotType = pickOption(catalog.ShotTypeOptions, shot.ShotTypeID, c.ShotType)
	c.Expression = pickOption(catalog.ExpressionOptions, shot.ExpressionID, c.Expression)
	c.CameraAngle = pickOption(catalog.CameraAngleOptions, shot.CameraAngleID, c.CameraAngle)
	c.FocalLength = pickOption(catalog.FocalLengthOptions, shot.FocalLengthID, c.FocalLength)
	return c
}

// overrideProductControls - 제품 팩 샷의 컨트롤 적용본
func overrideProductControls(c prompt.ProductControls, shot catalog.PackShot) prompt.ProductControls {
	c.ShotType = pickOption(catalog.ShotTypeOptions, shot.ShotTypeID, c.ShotType)
	c.Expression = pickOption(catalog.ExpressionOptions, shot.ExpressionID, c.Expression)
	c.CameraAngle = pickOption(catalog.CameraAngleOptions, shot.CameraAngleID, c.CameraAngle)
	c.FocalLength = pickOption(catalog.FocalLengthOptions, shot.FocalLengthID, c.FocalLength)
	return c
}

// apparelParams - 현재 상태로 의류 모드 컴파일 파라미터 구성
// baseLookImage가 있으면 일관성 재촬영 브랜치로 컴파일됨
func (e *Engine) apparelParams(s *State, output prompt.OutputKind, animation *prompt.Animation, baseLookImage string) *prompt.ApparelParams {
	return &prompt.ApparelParams{
		Common:                   e.common(s, output, animation),
		UploadedModelImage:       s.UploadedModelImage,
		SelectedModels:           s.SelectedModels,
		Apparel:                  s.Apparel,
		Scene:                    s.Scene,
		PromptedModelDescription: s.PromptedModelDescription,
		ModelLightingDescription: s.ModelLightingDescription,
		Controls:                 s.ApparelControls,
		BaseLookImage:            baseLookImage,
	}
}

// productParams - 현재 상태로 제품 모드 컴파일 파라미터 구성
func (e *Engine) productParams(s *State, output prompt.OutputKind, animation *prompt.Animation, modelReferenceImage string) *prompt.ProductParams {
	return &prompt.ProductParams{
		Common:                   e.common(s, output, animation),
		ProductImage:             s.ProductImage,
		StagedAssets:             s.StagedAssets,
		Scene:                    s.Scene,
		Controls:                 s.ProductControls,
		UploadedModelImage:       s.UploadedModelImage,
		SelectedModels:           s.SelectedModels,
		PromptedModelDescription: s.PromptedModelDescription,
		ModelReferenceImage:      modelReferenceImage,
	}
}

// designParams - 현재 상태로 디자인 목업 컴파일 파라미터 구성
func (e *Engine) designParams(s *State) *prompt.DesignParams {
	return &prompt.DesignParams{
		Common:          e.common(s, prompt.OutputImage, nil),
		MockupImage:     s.MockupImage,
		DesignImage:     s.DesignImage,
		BackDesignImage: s.BackDesignImage,
		Controls:        s.DesignControls,
		Scene:           s.Scene,
		ShotView:        s.DesignShotView,
	}
}

// reimagineParams - 현재 상태로 리이매진 컴파일 파라미터 구성
func (e *Engine) reimagineParams(s *State) *prompt.ReimagineParams {
	return &prompt.ReimagineParams{
		Common:        e.common(s, prompt.OutputImage, nil),
		SourcePhoto:   s.ReimagineSourcePhoto,
		NewModelPhoto: s.NewModelPhoto,
		Controls:      s.ReimagineControls,
	}
}

// negativePromptFor - 모드별 네거티브 프롬프트
func negativePromptFor(s *State) string {
	switch s.StudioMode {
	case ModeApparel:
		return s.ApparelControls.NegativePrompt
	case ModeProduct:
		return s.ProductControls.NegativePrompt
	case ModeReimagine:
		return s.ReimagineControls.NegativePrompt
	}
	return ""
}
