package transport

// Envelope is the wire shape of every API response. Success responses carry
// data (and optional meta, e.g. result counts); error responses carry the
// machine-readable code plus a human-readable message.
type Envelope struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
}

func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{
		Success: false,
		Code:    code,
		Message: message,
		Meta:    meta,
	}
}
