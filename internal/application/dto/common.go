package dto

// ErrorResponse cuerpo de error HTTP.
// Detail solo se completa en desarrollo (diagnóstico interno).
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// OKResponse acuse simple {ok, msg}.
type OKResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg,omitempty"`
}

// MessageResponse acuse {message} usado en altas.
type MessageResponse struct {
	Message string `json:"message"`
}
