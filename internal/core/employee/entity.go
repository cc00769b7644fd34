package employee

import "github.com/shopspring/decimal"

const (
	// MaxNameLength は氏名の最大文字数です。
	MaxNameLength = 100
	// MaxPositionLength は役職の最大文字数です。
	MaxPositionLength = 50
	// SalaryScale は給与の小数部の最大桁数です。
	SalaryScale = 2
	// MaxSalaryIntegerDigits は給与の整数部の最大桁数です。NUMERIC(15,2) に対応します。
	MaxSalaryIntegerDigits = 13
)

// maxSalaryExclusive は給与の上限 (これ未満) です。
var maxSalaryExclusive = decimal.New(1, MaxSalaryIntegerDigits)

// Employee は永続化層が保持する社員レコードです。
// ID はストアが作成時に一度だけ採番し、以後変更されません。
type Employee struct {
	ID       int64
	Name     string
	Position string
	Salary   decimal.Decimal
}
