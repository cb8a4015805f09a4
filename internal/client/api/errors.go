package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized совпадает через errors.Is с любым ответом 401
var ErrUnauthorized = errors.New("unauthorized")

// NetworkError запрос не удалось отправить или дочитать ответ
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError сервер ответил не 2xx
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ValidationError обязательные поля формы не заполнены, запрос не отправлялся
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.Fields, ", ")
}

func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// Message текст ошибки для показа пользователю
func Message(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return "Please fill in: " + strings.Join(validationErr.Fields, ", ")
	}

	if IsNetworkError(err) {
		return "Network error, please check your connection and try again"
	}

	return err.Error()
}
