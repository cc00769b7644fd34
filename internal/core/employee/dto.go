package employee

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// EmployeeDTO は境界層でやり取りする社員の表現です。
// 入力時の ID は無視され、出力時にストアが採番した値が入ります。
type EmployeeDTO struct {
	ID       *int64           `json:"id,omitempty"`
	Name     string           `json:"nombre"`
	Position string           `json:"puesto"`
	Salary   *decimal.Decimal `json:"salario"`
}

type employeeWire struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"nombre"`
	Position string          `json:"puesto"`
	Salary   json.RawMessage `json:"salario"`
}

// MarshalJSON は salario を文字列ではなく JSON の数値として出力します。
// decimal パッケージのグローバル設定には依存しません。
func (d EmployeeDTO) MarshalJSON() ([]byte, error) {
	salary := json.RawMessage("null")
	if d.Salary != nil {
		salary = json.RawMessage(d.Salary.String())
	}
	return json.Marshal(employeeWire{
		ID:       d.ID,
		Name:     d.Name,
		Position: d.Position,
		Salary:   salary,
	})
}
