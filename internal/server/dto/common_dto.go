package dto

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error  string `json:"error" example:"invalid redis url: host missing"`
	Reason string `json:"reason,omitempty" example:"host"`
}

