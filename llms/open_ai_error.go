package llms

import "fmt"

type ErrorResponse struct {
	Error *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code           any     `json:"code,omitempty"`
	Message        string  `json:"message,omitempty"`
	Param          *string `json:"param,omitempty"`
	Type           string  `json:"type,omitempty"`
	HTTPStatusCode int     `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

type OpenAIError struct {
	Err   error
	Model string
}

func (o OpenAIError) Error() string {
	return fmt.Sprintf("open ai error: model %s: %v", o.Model, o.Err)
}

func (o OpenAIError) Unwrap() error {
	return o.Err
}
