package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"productinfo/product-composite-service/internal/app/composite/entity"
)

var (
	// Ошибки транспортного уровня для обработки в service layer
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
)

// mapStatusError переводит не-2xx ответ core сервиса в доменную ошибку
// 404 -> ErrNotFound, 422 -> ErrInvalidInput, остальное -> ErrUpstream
// Сообщение берется из тела HttpErrorInfo, иначе используется статус ответа
func mapStatusError(resp *http.Response, body []byte) error {
	message := errorMessage(resp, body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidInput, message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, message)
	}
}

func errorMessage(resp *http.Response, body []byte) string {
	var info entity.HttpErrorInfo
	if err := json.Unmarshal(body, &info); err == nil && info.Message != "" {
		return info.Message
	}
	return resp.Status
}
