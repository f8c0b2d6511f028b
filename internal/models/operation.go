package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationID уникальный монотонно возрастающий идентификатор операции.
// Нулевое значение (NullOperationID) используется как sentinel
// "операции нет" и никогда не вставляется в дерево истории.
type OperationID uint64

// NullOperationID sentinel-значение "операции нет"
const NullOperationID OperationID = 0

// IsNull возвращает true, если идентификатор является sentinel-значением.
func (id OperationID) IsNull() bool {
	return id == NullOperationID
}

// OperationKind тип операции (закрытое множество вариантов).
type OperationKind string

// Константы для типов операций
const (
	KindCreateEntity     OperationKind = "create_entity"     // создание сущности
	KindDeleteEntity     OperationKind = "delete_entity"     // удаление сущности
	KindModifyEntity     OperationKind = "modify_entity"     // изменение геометрии сущности
	KindMoveEntities     OperationKind = "move_entities"     // перемещение сущностей
	KindRotateEntities   OperationKind = "rotate_entities"   // вращение сущностей
	KindScaleEntities    OperationKind = "scale_entities"    // масштабирование сущностей
	KindBooleanOperation OperationKind = "boolean_operation" // булева операция
	KindAddConstraint    OperationKind = "add_constraint"    // добавление ограничения
	KindRemoveConstraint OperationKind = "remove_constraint" // удаление ограничения
	KindModifyVariable   OperationKind = "modify_variable"   // изменение переменной
	KindGroup            OperationKind = "group"             // составная операция
	KindCustom           OperationKind = "custom"            // пользовательская операция
)

// OperationPayload данные конкретного варианта операции.
// Закрытый интерфейс: реализации перечислены в этом файле и
// новые варианты вне пакета добавить нельзя.
type OperationPayload interface {
	// Kind возвращает тип операции, которому принадлежит payload
	Kind() OperationKind
}

// CreateEntityPayload создание новой сущности.
type CreateEntityPayload struct {
	Entity Entity `json:"entity"` // Entity снимок созданной сущности
}

func (CreateEntityPayload) Kind() OperationKind { return KindCreateEntity }

// DeleteEntityPayload удаление сущности.
// PreviousEntity хранит снимок удаленной сущности для восстановления при undo.
type DeleteEntityPayload struct {
	PreviousEntity *Entity  `json:"previous_entity,omitempty"` // PreviousEntity снимок до удаления
	EntityID       EntityID `json:"entity_id"`                 // EntityID идентификатор удаленной сущности
}

func (DeleteEntityPayload) Kind() OperationKind { return KindDeleteEntity }

// ModifyEntityPayload изменение геометрии сущности.
type ModifyEntityPayload struct {
	PreviousGeometry Geometry `json:"previous_geometry"` // PreviousGeometry геометрия до изменения
	NewGeometry      Geometry `json:"new_geometry"`      // NewGeometry геометрия после изменения
	EntityID         EntityID `json:"entity_id"`         // EntityID идентификатор сущности
}

func (ModifyEntityPayload) Kind() OperationKind { return KindModifyEntity }

// MoveEntitiesPayload перемещение набора сущностей на общий вектор.
type MoveEntitiesPayload struct {
	EntityIDs         []EntityID `json:"entity_ids"`         // EntityIDs перемещенные сущности
	PreviousPositions []Point2   `json:"previous_positions"` // PreviousPositions позиции до перемещения
	Offset            Vector2    `json:"offset"`             // Offset вектор смещения
}

func (MoveEntitiesPayload) Kind() OperationKind { return KindMoveEntities }

// RotateEntitiesPayload вращение набора сущностей вокруг центра.
type RotateEntitiesPayload struct {
	EntityIDs      []EntityID `json:"entity_ids"`      // EntityIDs повернутые сущности
	PreviousAngles []float64  `json:"previous_angles"` // PreviousAngles углы до вращения
	Center         Point2     `json:"center"`          // Center центр вращения
	Angle          float64    `json:"angle"`           // Angle угол вращения в радианах
}

func (RotateEntitiesPayload) Kind() OperationKind { return KindRotateEntities }

// ScaleEntitiesPayload масштабирование набора сущностей относительно центра.
type ScaleEntitiesPayload struct {
	EntityIDs      []EntityID `json:"entity_ids"`      // EntityIDs масштабированные сущности
	PreviousScales []float64  `json:"previous_scales"` // PreviousScales масштабы до операции
	Center         Point2     `json:"center"`          // Center центр масштабирования
	Scale          float64    `json:"scale"`           // Scale коэффициент масштабирования
}

func (ScaleEntitiesPayload) Kind() OperationKind { return KindScaleEntities }

// BooleanOperationPayload булева операция над двумя сущностями.
type BooleanOperationPayload struct {
	ResultEntities   []Entity  `json:"result_entities"`   // ResultEntities сущности-результаты
	PreviousEntities []Entity  `json:"previous_entities"` // PreviousEntities исходные сущности для undo
	Op               BooleanOp `json:"op"`                // Op тип булевой операции
	Entity1          EntityID  `json:"entity1"`           // Entity1 первый операнд
	Entity2          EntityID  `json:"entity2"`           // Entity2 второй операнд
}

func (BooleanOperationPayload) Kind() OperationKind { return KindBooleanOperation }

// AddConstraintPayload добавление параметрического ограничения.
type AddConstraintPayload struct {
	Constraint Constraint `json:"constraint"` // Constraint добавленное ограничение
}

func (AddConstraintPayload) Kind() OperationKind { return KindAddConstraint }

// RemoveConstraintPayload удаление параметрического ограничения.
type RemoveConstraintPayload struct {
	PreviousConstraint *Constraint  `json:"previous_constraint,omitempty"` // PreviousConstraint снимок до удаления
	ConstraintID       ConstraintID `json:"constraint_id"`                 // ConstraintID идентификатор ограничения
}

func (RemoveConstraintPayload) Kind() OperationKind { return KindRemoveConstraint }

// ModifyVariablePayload изменение значения параметрической переменной.
type ModifyVariablePayload struct {
	VariableID    VariableID `json:"variable_id"`    // VariableID идентификатор переменной
	PreviousValue float64    `json:"previous_value"` // PreviousValue значение до изменения
	NewValue      float64    `json:"new_value"`      // NewValue значение после изменения
}

func (ModifyVariablePayload) Kind() OperationKind { return KindModifyVariable }

// GroupPayload составная операция: несколько вложенных операций,
// отменяемых одним шагом undo.
type GroupPayload struct {
	Name       string      `json:"name"`       // Name имя группы (например, "Вставка блока")
	Operations []Operation `json:"operations"` // Operations вложенные операции
}

func (GroupPayload) Kind() OperationKind { return KindGroup }

// CustomPayload пользовательская операция с произвольными данными.
type CustomPayload struct {
	Name string `json:"name"` // Name имя операции
	Data []byte `json:"data"` // Data непрозрачные данные операции
}

func (CustomPayload) Kind() OperationKind { return KindCustom }

// Operation неизменяемая запись одного семантического изменения документа.
// Операция создается один раз и никогда не модифицируется на месте:
// слияние двух операций при сжатии истории порождает новую операцию
// с новым идентификатором.
type Operation struct {
	Timestamp        time.Time        `json:"timestamp"`         // Timestamp время создания операции
	Payload          OperationPayload `json:"payload"`           // Payload данные варианта операции
	Description      string           `json:"description"`       // Description человекочитаемое описание
	Kind             OperationKind    `json:"kind"`              // Kind тип операции
	Dependencies     []OperationID    `json:"dependencies"`      // Dependencies явные зависимости от других операций
	AffectedEntities []EntityID       `json:"affected_entities"` // AffectedEntities затронутые сущности документа
	ID               OperationID      `json:"id"`                // ID уникальный идентификатор операции
	CanUndo          bool             `json:"can_undo"`          // CanUndo флаг отменяемости операции
}

// WithDependencies возвращает копию операции с заданными явными зависимостями.
func (op Operation) WithDependencies(deps ...OperationID) Operation {
	op.Dependencies = deps
	return op
}

// WithAffectedEntities возвращает копию операции с заданным списком
// затронутых сущностей.
func (op Operation) WithAffectedEntities(entities ...EntityID) Operation {
	op.AffectedEntities = entities
	return op
}

// WithUndoable возвращает копию операции с заданным флагом отменяемости.
func (op Operation) WithUndoable(canUndo bool) Operation {
	op.CanUndo = canUndo
	return op
}

// operationEnvelope промежуточная форма для (де)сериализации операции:
// payload декодируется отдельно в зависимости от kind.
type operationEnvelope struct {
	Timestamp        time.Time       `json:"timestamp"`
	Payload          json.RawMessage `json:"payload"`
	Description      string          `json:"description"`
	Kind             OperationKind   `json:"kind"`
	Dependencies     []OperationID   `json:"dependencies"`
	AffectedEntities []EntityID      `json:"affected_entities"`
	ID               OperationID     `json:"id"`
	CanUndo          bool            `json:"can_undo"`
}

// MarshalJSON сериализует операцию в envelope-форму.
func (op Operation) MarshalJSON() ([]byte, error) {
	var payload json.RawMessage
	if op.Payload != nil {
		data, err := json.Marshal(op.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal operation payload: %w", err)
		}
		payload = data
	}

	return json.Marshal(operationEnvelope{
		ID:               op.ID,
		Kind:             op.Kind,
		Payload:          payload,
		Timestamp:        op.Timestamp,
		Description:      op.Description,
		CanUndo:          op.CanUndo,
		Dependencies:     op.Dependencies,
		AffectedEntities: op.AffectedEntities,
	})
}

// UnmarshalJSON восстанавливает операцию из envelope-формы,
// выбирая конкретный тип payload по значению kind.
func (op *Operation) UnmarshalJSON(data []byte) error {
	var envelope operationEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal operation envelope: %w", err)
	}

	payload, err := unmarshalPayload(envelope.Kind, envelope.Payload)
	if err != nil {
		return err
	}

	op.ID = envelope.ID
	op.Kind = envelope.Kind
	op.Payload = payload
	op.Timestamp = envelope.Timestamp
	op.Description = envelope.Description
	op.CanUndo = envelope.CanUndo
	op.Dependencies = envelope.Dependencies
	op.AffectedEntities = envelope.AffectedEntities

	return nil
}

// unmarshalPayload декодирует payload операции по типу.
func unmarshalPayload(kind OperationKind, data json.RawMessage) (OperationPayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("operation payload is missing for kind %q", kind)
	}

	decode := func(target OperationPayload) (OperationPayload, error) {
		if err := json.Unmarshal(data, target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", kind, err)
		}
		return target, nil
	}

	switch kind {
	case KindCreateEntity:
		p, err := decode(&CreateEntityPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*CreateEntityPayload), nil
	case KindDeleteEntity:
		p, err := decode(&DeleteEntityPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*DeleteEntityPayload), nil
	case KindModifyEntity:
		p, err := decode(&ModifyEntityPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*ModifyEntityPayload), nil
	case KindMoveEntities:
		p, err := decode(&MoveEntitiesPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*MoveEntitiesPayload), nil
	case KindRotateEntities:
		p, err := decode(&RotateEntitiesPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*RotateEntitiesPayload), nil
	case KindScaleEntities:
		p, err := decode(&ScaleEntitiesPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*ScaleEntitiesPayload), nil
	case KindBooleanOperation:
		p, err := decode(&BooleanOperationPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*BooleanOperationPayload), nil
	case KindAddConstraint:
		p, err := decode(&AddConstraintPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*AddConstraintPayload), nil
	case KindRemoveConstraint:
		p, err := decode(&RemoveConstraintPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*RemoveConstraintPayload), nil
	case KindModifyVariable:
		p, err := decode(&ModifyVariablePayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*ModifyVariablePayload), nil
	case KindGroup:
		p, err := decode(&GroupPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*GroupPayload), nil
	case KindCustom:
		p, err := decode(&CustomPayload{})
		if err != nil {
			return nil, err
		}
		return *p.(*CustomPayload), nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", kind)
	}
}
