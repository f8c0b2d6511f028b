package models

import "encoding/json"

// EntityID уникальный идентификатор сущности чертежа (линия, дуга, полилиния и т.д.).
// Движок истории хранит идентификаторы как непрозрачные токены
// и никогда не разыменовывает их в сам документ.
type EntityID uint64

// ConstraintID уникальный идентификатор параметрического ограничения.
type ConstraintID uint64

// VariableID уникальный идентификатор параметрической переменной.
type VariableID uint64

// Point2 точка на плоскости чертежа.
type Point2 struct {
	X float64 `json:"x"` // X координата X
	Y float64 `json:"y"` // Y координата Y
}

// Vector2 вектор смещения на плоскости чертежа.
type Vector2 struct {
	X float64 `json:"x"` // X компонента X
	Y float64 `json:"y"` // Y компонента Y
}

// Add возвращает сумму двух векторов.
// Используется при слиянии последовательных операций перемещения.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Entity снимок сущности документа на момент операции.
// Data содержит сериализованную геометрию и атрибуты; движок истории
// сохраняет и возвращает снимок как есть, не интерпретируя содержимое.
type Entity struct {
	Data json.RawMessage `json:"data"` // Data сериализованный снимок сущности
	ID   EntityID        `json:"id"`   // ID идентификатор сущности
}

// Clone создает глубокую копию снимка сущности.
func (e *Entity) Clone() *Entity {
	data := make(json.RawMessage, len(e.Data))
	copy(data, e.Data)

	return &Entity{
		ID:   e.ID,
		Data: data,
	}
}

// Geometry снимок геометрии сущности (до или после изменения).
// Как и Entity.Data, хранится без интерпретации.
type Geometry = json.RawMessage

// Constraint снимок параметрического ограничения.
type Constraint struct {
	Data json.RawMessage `json:"data"` // Data сериализованное определение ограничения
	ID   ConstraintID    `json:"id"`   // ID идентификатор ограничения
}

// Clone создает глубокую копию снимка ограничения.
func (c *Constraint) Clone() *Constraint {
	data := make(json.RawMessage, len(c.Data))
	copy(data, c.Data)

	return &Constraint{
		ID:   c.ID,
		Data: data,
	}
}

// BooleanOp тип булевой операции над двумя сущностями.
type BooleanOp string

// Константы для типов булевых операций
const (
	BooleanUnion        BooleanOp = "union"        // объединение
	BooleanDifference   BooleanOp = "difference"   // вычитание
	BooleanIntersection BooleanOp = "intersection" // пересечение
)
