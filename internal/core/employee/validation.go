package employee

import (
	"strings"
	"unicode/utf8"
)

// 転送表現のフィールド名です。エラー応答のキーとして使われます。
const (
	FieldName     = "nombre"
	FieldPosition = "puesto"
	FieldSalary   = "salario"
)

// Validate は転送表現を検証し、違反したフィールドごとにエラーを返します。
func Validate(dto *EmployeeDTO) []FieldError {
	if dto == nil {
		return nil
	}

	var errs []FieldError

	switch {
	case strings.TrimSpace(dto.Name) == "":
		errs = append(errs, FieldError{Field: FieldName, Message: "El nombre es obligatorio"})
	case utf8.RuneCountInString(dto.Name) > MaxNameLength:
		errs = append(errs, FieldError{Field: FieldName, Message: "El nombre no puede superar los 100 caracteres"})
	}

	switch {
	case strings.TrimSpace(dto.Position) == "":
		errs = append(errs, FieldError{Field: FieldPosition, Message: "El puesto es obligatorio"})
	case utf8.RuneCountInString(dto.Position) > MaxPositionLength:
		errs = append(errs, FieldError{Field: FieldPosition, Message: "El puesto no puede superar los 50 caracteres"})
	}

	switch {
	case dto.Salary == nil:
		errs = append(errs, FieldError{Field: FieldSalary, Message: "El salario es obligatorio"})
	case !dto.Salary.IsPositive():
		errs = append(errs, FieldError{Field: FieldSalary, Message: "El salario debe ser mayor a 0"})
	case !dto.Salary.Equal(dto.Salary.Round(SalaryScale)) || dto.Salary.GreaterThanOrEqual(maxSalaryExclusive):
		errs = append(errs, FieldError{Field: FieldSalary, Message: "El salario admite como máximo 13 dígitos enteros y 2 decimales"})
	}

	return errs
}
