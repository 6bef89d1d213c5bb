package studio

import (
	"context"
	"errors"
	"fmt"
	"log"

	"virtual-studio-server/modules/catalog"
	"virtual-studio-server/modules/common/gemini"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// GenerateAsset - 현재 모드와 설정으로 한 패스 생성
// 의류/디자인/리이매진은 배치, 제품은 팩 선택에 따라 순차 팩 루프로 분기
func (e *Engine) GenerateAsset(ctx context.Context, onComplete CompleteFunc) error {
	if err := e.checkRateLimit(); err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}
	e.recordRequestTimestamp()

	passCtx, cancel := e.beginPass(ctx)
	defer e.endPass(cancel)

	e.resetForPass()
	snap := e.Snapshot()

	produced, err := e.runImagePass(passCtx, &snap)
	return e.finishPass(ctx, produced, err, onComplete)
}

// resetForPass - 새 패스 시작 시 결과 상태 초기화
func (e *Engine) resetForPass() {
	e.apply(func(s *State) {
		s.IsGenerating = true
		s.Error = ""
		s.GeneratedImages = nil
		s.GeneratedVideoURL = ""
		s.VideoSourceImage = ""
		zero := 0
		s.ActiveImageIndex = &zero
		s.LoadingMessage = "Preparing your vision..."
	})
}

// finishPass - 패스 종료 공통 처리
// 취소는 조용히 끝내고, 실패는 에러 메시지를 남기되 부분 결과는 유지함
func (e *Engine) finishPass(ctx context.Context, produced int, err error, onComplete CompleteFunc) error {
	e.apply(func(s *State) {
		s.IsGenerating = false
		s.LoadingMessage = ""
		s.GenerationCount++
	})

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("🛑 [Studio] Session %s: pass cancelled, %d image(s) kept", e.ID, produced)
			return nil
		}
		log.Printf("❌ [Studio] Session %s: generation failed: %v", e.ID, err)
		e.apply(func(s *State) {
			s.Error = err.Error()
		})
		return err
	}

	log.Printf("✅ [Studio] Session %s: pass complete, %d image(s)", e.ID, produced)
	if produced > 0 && onComplete != nil {
		if cbErr := onComplete(ctx, produced); cbErr != nil {
			log.Printf("⚠️ [Studio] Session %s: completion hook failed: %v", e.ID, cbErr)
		}
	}
	return nil
}

// runImagePass - 모드별 이미지 생성 디스패치, 생성된 장수 반환
func (e *Engine) runImagePass(ctx context.Context, snap *State) (int, error) {
	switch snap.StudioMode {
	case ModeApparel:
		return e.runBatch(ctx, snap, e.apparelParams(snap, prompt.OutputImage, nil, ""))

	case ModeProduct:
		if snap.HasModel() && snap.EcommercePack != PackNone {
			if pack, ok := catalog.FindEcommercePack(snap.EcommercePack); ok {
				return e.runPack(ctx, snap, pack, func(shot catalog.PackShot) prompt.Params {
					p := e.productParams(snap, prompt.OutputImage, nil, "")
					p.Controls = overrideProductControls(p.Controls, shot)
					return p
				})
			}
		}
		if !snap.HasModel() && snap.ProductEcommercePack != PackNone {
			if pack, ok := catalog.FindProductEcommercePack(snap.ProductEcommercePack); ok {
				return e.runPack(ctx, snap, pack, func(shot catalog.PackShot) prompt.Params {
					p := e.productParams(snap, prompt.OutputImage, nil, "")
					p.Controls = overrideProductControls(p.Controls, shot)
					return p
				})
			}
		}
		return e.runBatch(ctx, snap, e.productParams(snap, prompt.OutputImage, nil, ""))

	case ModeDesign:
		return e.runBatch(ctx, snap, e.designParams(snap))

	case ModeReimagine:
		return e.runBatch(ctx, snap, e.reimagineParams(snap))
	}

	return 0, fmt.Errorf("unknown studio mode %q", snap.StudioMode)
}

// runBatch - 한 번의 백엔드 호출로 NumberOfImages장 생성
// 도착하는 이미지마다 해당 슬롯을 즉시 채움
func (e *Engine) runBatch(ctx context.Context, snap *State, params prompt.Params) (int, error) {
	segments, err := prompt.Compile(params)
	if err != nil {
		return 0, err
	}

	count := snap.NumberOfImages
	if count <= 0 {
		count = 1
	}

	e.apply(func(s *State) {
		s.GeneratedImages = make([]string, count)
		s.LoadingMessage = "Generating your vision..."
	})

	req := gemini.ImageRequest{
		Segments:       segments,
		AspectRatio:    snap.AspectRatio,
		Count:          count,
		NegativePrompt: negativePromptFor(snap),
		OnRetry:        e.onRetryMessage,
	}
	return e.gateway.GenerateImages(ctx, req, func(index int, data []byte, mimeType string) {
		e.writeImageSlot(index, utils.ToDataURL(data, mimeType))
	})
}

// runPack - 팩 샷을 순서대로 한 장씩 생성
// 샷 사이마다 취소를 확인하고, 실패해도 이미 채운 슬롯은 유지함
func (e *Engine) runPack(ctx context.Context, snap *State, pack catalog.Pack, buildShot func(catalog.PackShot) prompt.Params) (int, error) {
	total := len(pack.Shots)
	e.apply(func(s *State) {
		s.GeneratedImages = make([]string, total)
	})

	produced := 0
	for i, shot := range pack.Shots {
		if e.isCancelled(ctx) {
			return produced, context.Canceled
		}

		e.apply(func(s *State) {
			s.LoadingMessage = fmt.Sprintf("Generating %s... (%d/%d)", pack.Name, i+1, total)
		})

		segments, err := prompt.Compile(buildShot(shot))
		if err != nil {
			return produced, err
		}

		slot := i
		req := gemini.ImageRequest{
			Segments:       segments,
			AspectRatio:    snap.AspectRatio,
			Count:          1,
			NegativePrompt: negativePromptFor(snap),
			OnRetry:        e.onRetryMessage,
		}
		n, err := e.gateway.GenerateImages(ctx, req, func(_ int, data []byte, mimeType string) {
			e.writeImageSlot(slot, utils.ToDataURL(data, mimeType))
		})
		if err != nil {
			return produced, err
		}
		produced += n
	}
	return produced, nil
}

// GeneratePackFromReference - 활성 이미지를 기준 컷으로 팩 전체를 재촬영
// 의류 모드는 착장 고정, 제품(온모델) 모드는 모델 고정으로 컴파일됨
func (e *Engine) GeneratePackFromReference(ctx context.Context, onComplete CompleteFunc) error {
	snap := e.Snapshot()

	reference, err := activeImage(&snap, "No reference image selected to generate a pack.")
	if err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}

	var pack catalog.Pack
	var buildShot func(catalog.PackShot) prompt.Params

	switch snap.StudioMode {
	case ModeApparel:
		if snap.EcommercePack == PackNone {
			err = prompt.NewValidationError("No e-commerce pack is selected in the settings.")
			break
		}
		p, ok := catalog.FindEcommercePack(snap.EcommercePack)
		if !ok {
			err = prompt.NewValidationError("No e-commerce pack is selected in the settings.")
			break
		}
		pack = p
		buildShot = func(shot catalog.PackShot) prompt.Params {
			params := e.apparelParams(&snap, prompt.OutputImage, nil, reference)
			params.Controls = overrideApparelControls(params.Controls, shot)
			return params
		}

	case ModeProduct:
		if !snap.HasModelSelection() {
			err = prompt.NewValidationError("Generating a pack from a reference image is for on-model shots. Please select a model and choose a pack from the 'E-commerce Pack' options.")
			break
		}
		if snap.EcommercePack == PackNone {
			err = prompt.NewValidationError("Select an E-commerce Pack in Settings for on-model pack generation.")
			break
		}
		p, ok := catalog.FindEcommercePack(snap.EcommercePack)
		if !ok {
			err = prompt.NewValidationError("Select an E-commerce Pack in Settings for on-model pack generation.")
			break
		}
		pack = p
		buildShot = func(shot catalog.PackShot) prompt.Params {
			params := e.productParams(&snap, prompt.OutputImage, nil, reference)
			params.Controls = overrideProductControls(params.Controls, shot)
			return params
		}

	default:
		err = &UnsupportedOperationError{Message: "Pack generation is not available in this mode."}
	}

	if err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}

	if err := e.checkRateLimit(); err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}
	e.recordRequestTimestamp()
	passCtx, cancel := e.beginPass(ctx)
	defer e.endPass(cancel)

	e.resetForPass()
	produced, runErr := e.runPack(passCtx, &snap, pack, buildShot)
	return e.finishPass(ctx, produced, runErr, onComplete)
}

// activeImage - 활성 인덱스가 가리키는 완성된 이미지, 없으면 에러
func activeImage(s *State, message string) (string, error) {
	if s.ActiveImageIndex == nil {
		return "", prompt.NewValidationError("%s", message)
	}
	idx := *s.ActiveImageIndex
	if idx < 0 || idx >= len(s.GeneratedImages) || s.GeneratedImages[idx] == "" {
		return "", prompt.NewValidationError("%s", message)
	}
	return s.GeneratedImages[idx], nil
}
