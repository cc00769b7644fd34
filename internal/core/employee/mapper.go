package employee

// Mapper はレコードと転送表現を相互に変換します。状態を持ちません。
type Mapper struct{}

// ToDTO はレコードを転送表現へ変換します。nil は nil を返します。
func (Mapper) ToDTO(e *Employee) *EmployeeDTO {
	if e == nil {
		return nil
	}

	id := e.ID
	salary := e.Salary
	return &EmployeeDTO{
		ID:       &id,
		Name:     e.Name,
		Position: e.Position,
		Salary:   &salary,
	}
}

// ToEntity は転送表現をレコードへ変換します。ID は採番前のためコピーしません。
func (Mapper) ToEntity(dto *EmployeeDTO) *Employee {
	if dto == nil {
		return nil
	}

	e := &Employee{
		Name:     dto.Name,
		Position: dto.Position,
	}
	if dto.Salary != nil {
		e.Salary = *dto.Salary
	}
	return e
}

// ToDTOs はレコードの一覧を変換します。結果は nil ではなく常にスライスです。
func (m Mapper) ToDTOs(employees []*Employee) []*EmployeeDTO {
	out := make([]*EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		if dto := m.ToDTO(e); dto != nil {
			out = append(out, dto)
		}
	}
	return out
}
