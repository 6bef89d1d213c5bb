package prompt

import "fmt"

// ValidationError - 사용자가 고칠 수 있는 입력 문제 (누락된 모델, 빈 의류 목록 등)
// 메시지는 UI에 그대로 노출됨
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError - 사용자 안내 메시지와 함께 검증 에러 생성
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MalformedInputError - 깨진 data URL 등 입력 데이터 자체의 문제
// 조용히 넘어가지 않고 어느 필드가 문제인지 함께 보고함
type MalformedInputError struct {
	Field string
	Err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input for %s: %v", e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
