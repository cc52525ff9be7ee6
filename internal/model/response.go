package model

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorKind `json:"code,omitempty"`
}

// CreatedResponse is returned by the create endpoint.
type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// MessageResponse carries a human readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}
