package studio

// UnsupportedOperationError - 현재 모드에서 지원하지 않는 작업
// 사용자가 고칠 수 있으면 구체적인 안내 메시지를 담음
type UnsupportedOperationError struct {
	Message string
}

func (e *UnsupportedOperationError) Error() string {
	return e.Message
}
