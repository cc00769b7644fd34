package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02T15:04:05"

// ErrorResponse は単一の失敗を表す応答本文です。
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
}

// ValidationErrorResponse はフィールド検証失敗の応答本文です。
type ValidationErrorResponse struct {
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// writeError は分類済みエラーを応答に変換します。未分類のものは Internal として扱います。
func writeError(w http.ResponseWriter, logger *zap.Logger, now time.Time, err error) {
	var alreadyClassified *employee.Error
	if !errors.As(err, &alreadyClassified) && logger != nil {
		logger.Error("unclassified error reached the boundary", zap.Error(err))
	}
	classified := employee.Classify(err)

	if classified.Kind == employee.KindValidationFailed {
		writeJSON(w, classified.Status(), ValidationErrorResponse{
			Error:       classified.CategoryLabel(),
			Message:     classified.Message,
			FieldErrors: classified.FieldErrorMap(),
		})
		return
	}

	message := classified.Message
	if classified.Kind == employee.KindInternal {
		message = employee.MessageInternal
	}

	writeJSON(w, classified.Status(), ErrorResponse{
		Error:     classified.CategoryLabel(),
		Message:   message,
		Timestamp: now.Format(timestampLayout),
		Status:    classified.Status(),
	})
}
