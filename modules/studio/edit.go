package studio

import (
	"context"
	"log"

	"virtual-studio-server/modules/common/gemini"
	"virtual-studio-server/modules/common/utils"
	"virtual-studio-server/modules/prompt"
)

// StartEditing - 활성 이미지의 편집 세션 시작, 원본 스냅샷 보관
func (e *Engine) StartEditing(index int) error {
	var err error
	e.apply(func(s *State) {
		if index < 0 || index >= len(s.GeneratedImages) || s.GeneratedImages[index] == "" {
			err = prompt.NewValidationError("No image available to edit.")
			return
		}
		s.IsEditing = true
		s.ImageBeingEdited = &EditSession{
			Original: s.GeneratedImages[index],
			Index:    index,
		}
		idx := index
		s.ActiveImageIndex = &idx
	})
	return err
}

// CancelEditing - 편집 취소, 원본 복원 후 세션 종료
// 세션이 없으면 아무것도 하지 않음
func (e *Engine) CancelEditing() {
	e.apply(func(s *State) {
		if s.ImageBeingEdited != nil {
			edit := s.ImageBeingEdited
			if edit.Index >= 0 && edit.Index < len(s.GeneratedImages) {
				s.GeneratedImages[edit.Index] = edit.Original
			}
		}
		s.IsEditing = false
		s.ImageBeingEdited = nil
		s.IsApplyingEdit = false
	})
}

// RevertEdit - 적용된 편집을 원본으로 되돌림, 세션은 유지
func (e *Engine) RevertEdit() {
	e.apply(func(s *State) {
		if s.ImageBeingEdited == nil {
			return
		}
		edit := s.ImageBeingEdited
		if edit.Index >= 0 && edit.Index < len(s.GeneratedImages) {
			s.GeneratedImages[edit.Index] = edit.Original
		}
		s.GenerationCount++
	})
}

// ApplyGenerativeEdit - 마스크 영역을 프롬프트대로 수정해 활성 슬롯을 교체
// apparelRef가 있으면 교체용 의류 레퍼런스로 함께 전송됨
func (e *Engine) ApplyGenerativeEdit(ctx context.Context, maskDataURL, editPrompt, apparelRefDataURL string) error {
	snap := e.Snapshot()

	source, err := activeImage(&snap, "No image selected to edit.")
	if err != nil {
		e.apply(func(s *State) { s.Error = err.Error() })
		return err
	}
	index := *snap.ActiveImageIndex

	e.apply(func(s *State) {
		s.IsApplyingEdit = true
		s.Error = ""
		s.LoadingMessage = "Applying generative edit..."
	})
	defer e.apply(func(s *State) {
		s.IsApplyingEdit = false
		s.LoadingMessage = ""
	})

	req := gemini.EditRequest{
		Prompt:      editPrompt,
		AspectRatio: snap.AspectRatio,
	}
	req.Image, req.ImageMIME, err = utils.ParseDataURL(source)
	if err != nil {
		return e.failEdit(&prompt.MalformedInputError{Field: "edit source image", Err: err})
	}
	if maskDataURL != "" {
		req.Mask, _, err = utils.ParseDataURL(maskDataURL)
		if err != nil {
			return e.failEdit(&prompt.MalformedInputError{Field: "edit mask", Err: err})
		}
	}
	if apparelRefDataURL != "" {
		req.Reference, req.ReferenceMIME, err = utils.ParseDataURL(apparelRefDataURL)
		if err != nil {
			return e.failEdit(&prompt.MalformedInputError{Field: "edit apparel reference", Err: err})
		}
	}

	data, mimeType, err := e.gateway.GenerativeEdit(ctx, req)
	if err != nil {
		return e.failEdit(err)
	}

	e.apply(func(s *State) {
		if index >= 0 && index < len(s.GeneratedImages) {
			s.GeneratedImages[index] = utils.ToDataURL(data, mimeType)
		}
		s.GenerationCount++
	})
	log.Printf("✅ [Studio] Session %s: generative edit applied to slot %d", e.ID, index)
	return nil
}

// failEdit - 편집 실패를 상태에 기록
func (e *Engine) failEdit(err error) error {
	log.Printf("❌ [Studio] Session %s: generative edit failed: %v", e.ID, err)
	e.apply(func(s *State) {
		s.Error = err.Error()
	})
	return err
}
