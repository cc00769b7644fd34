package employee

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Kind は分類済み失敗の種別です。閉じた集合として扱います。
type Kind int

const (
	KindInternal Kind = iota
	KindValidationFailed
	KindNotFound
	KindInvalidArgument
)

const (
	LabelValidationFailed = "Errores de validación"
	LabelNotFound         = "Recurso no encontrado"
	LabelEmployeeNotFound = "Empleado no encontrado"
	LabelInvalidArgument  = "Solicitud inválida"
	LabelInternal         = "Error interno del servidor"

	MessageValidationFailed = "Los datos proporcionados no son válidos"
	MessageInternal         = "Ha ocurrido un error inesperado. Por favor, contacte a soporte."
)

// String は種別名を返します。メトリクスやログのラベルに使います。
func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Status は境界層で使う HTTP ステータスコードを返します。
func (k Kind) Status() int {
	switch k {
	case KindValidationFailed, KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Label は種別ごとの既定のカテゴリ名を返します。
func (k Kind) Label() string {
	switch k {
	case KindValidationFailed:
		return LabelValidationFailed
	case KindNotFound:
		return LabelNotFound
	case KindInvalidArgument:
		return LabelInvalidArgument
	default:
		return LabelInternal
	}
}

// FieldError はフィールド単位の検証エラーです。
type FieldError struct {
	Field   string
	Message string
}

// Error は失敗地点で分類されたエラーです。
// Err は原因を保持しますが、呼び出し元に表示されることはありません。
type Error struct {
	Kind        Kind
	Label       string
	Message     string
	FieldErrors []FieldError
	Err         error
}

var (
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrInternal         = &Error{Kind: KindInternal}
)

// ErrRecordNotFound はリポジトリがレコードを見つけられなかった場合に返却します。
var ErrRecordNotFound = errors.New("employee: record not found")

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("employee: %s: %v", msg, e.Err)
	}
	return "employee: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は同じ種別の番兵エラーと一致します。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Status は HTTP ステータスコードを返します。
func (e *Error) Status() int {
	return e.Kind.Status()
}

// CategoryLabel は表示用のカテゴリ名を返します。
func (e *Error) CategoryLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Kind.Label()
}

// FieldErrorMap はフィールド名からメッセージへのマップを返します。
func (e *Error) FieldErrorMap() map[string]string {
	out := make(map[string]string, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		if _, exists := out[fe.Field]; !exists {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// NewValidationError はフィールドエラーを持つ ValidationFailed を生成します。
func NewValidationError(fields []FieldError) *Error {
	return &Error{
		Kind:        KindValidationFailed,
		Label:       LabelValidationFailed,
		Message:     MessageValidationFailed,
		FieldErrors: fields,
	}
}

// NewNotFoundError は指定 ID の社員が存在しないことを表します。
func NewNotFoundError(id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Label:   LabelEmployeeNotFound,
		Message: "No existe un empleado con ID: " + strconv.FormatInt(id, 10),
	}
}

// NewInvalidArgumentError は前提条件違反を表します。
func NewInvalidArgumentError(message string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Label:   LabelInvalidArgument,
		Message: message,
	}
}

// NewInternalError は原因を隠した Internal を生成します。
func NewInternalError(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Label:   LabelInternal,
		Message: MessageInternal,
		Err:     cause,
	}
}

// Classify は err を分類済みエラーとして返します。未分類のものは Internal になります。
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	return NewInternalError(err)
}

// ParseID は境界層から受け取った文字列 ID を解釈します。
func ParseID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidArgumentError("El ID debe ser un número entero positivo: " + raw)
	}
	return id, nil
}
