package models

import (
	"time"

	"github.com/iudanet/drafthist/internal/idgen"
)

// newOperation оборачивает payload в операцию со свежим идентификатором
// и текущим временем создания.
func newOperation(payload OperationPayload, description string) Operation {
	return Operation{
		ID:          OperationID(idgen.Next()),
		Kind:        payload.Kind(),
		Payload:     payload,
		Timestamp:   time.Now().UTC(),
		Description: description,
		CanUndo:     true,
	}
}

// NewCreateEntity создает операцию создания сущности.
func NewCreateEntity(entity Entity, description string) Operation {
	return newOperation(CreateEntityPayload{Entity: entity}, description)
}

// NewDeleteEntity создает операцию удаления сущности.
// previousEntity снимок сущности до удаления (nil допустим, но тогда
// undo на стороне редактора невозможен без пересчета).
func NewDeleteEntity(entityID EntityID, previousEntity *Entity, description string) Operation {
	return newOperation(DeleteEntityPayload{
		EntityID:       entityID,
		PreviousEntity: previousEntity,
	}, description)
}

// NewModifyEntity создает операцию изменения геометрии сущности.
func NewModifyEntity(entityID EntityID, previousGeometry, newGeometry Geometry, description string) Operation {
	return newOperation(ModifyEntityPayload{
		EntityID:         entityID,
		PreviousGeometry: previousGeometry,
		NewGeometry:      newGeometry,
	}, description)
}

// NewMoveEntities создает операцию перемещения набора сущностей.
func NewMoveEntities(entityIDs []EntityID, offset Vector2, previousPositions []Point2, description string) Operation {
	return newOperation(MoveEntitiesPayload{
		EntityIDs:         entityIDs,
		Offset:            offset,
		PreviousPositions: previousPositions,
	}, description)
}

// NewRotateEntities создает операцию вращения набора сущностей.
func NewRotateEntities(entityIDs []EntityID, center Point2, angle float64, previousAngles []float64, description string) Operation {
	return newOperation(RotateEntitiesPayload{
		EntityIDs:      entityIDs,
		Center:         center,
		Angle:          angle,
		PreviousAngles: previousAngles,
	}, description)
}

// NewScaleEntities создает операцию масштабирования набора сущностей.
func NewScaleEntities(entityIDs []EntityID, center Point2, scale float64, previousScales []float64, description string) Operation {
	return newOperation(ScaleEntitiesPayload{
		EntityIDs:      entityIDs,
		Center:         center,
		Scale:          scale,
		PreviousScales: previousScales,
	}, description)
}

// NewBooleanOperation создает операцию булевой операции над двумя сущностями.
func NewBooleanOperation(op BooleanOp, entity1, entity2 EntityID, resultEntities, previousEntities []Entity, description string) Operation {
	return newOperation(BooleanOperationPayload{
		Op:               op,
		Entity1:          entity1,
		Entity2:          entity2,
		ResultEntities:   resultEntities,
		PreviousEntities: previousEntities,
	}, description)
}

// NewAddConstraint создает операцию добавления ограничения.
func NewAddConstraint(constraint Constraint, description string) Operation {
	return newOperation(AddConstraintPayload{Constraint: constraint}, description)
}

// NewRemoveConstraint создает операцию удаления ограничения.
func NewRemoveConstraint(constraintID ConstraintID, previousConstraint *Constraint, description string) Operation {
	return newOperation(RemoveConstraintPayload{
		ConstraintID:       constraintID,
		PreviousConstraint: previousConstraint,
	}, description)
}

// NewModifyVariable создает операцию изменения параметрической переменной.
func NewModifyVariable(variableID VariableID, previousValue, newValue float64, description string) Operation {
	return newOperation(ModifyVariablePayload{
		VariableID:    variableID,
		PreviousValue: previousValue,
		NewValue:      newValue,
	}, description)
}

// NewGroupOperation создает составную операцию из нескольких вложенных.
// Вложенные операции отменяются одним шагом undo на стороне редактора.
func NewGroupOperation(name string, operations []Operation, description string) Operation {
	return newOperation(GroupPayload{
		Name:       name,
		Operations: operations,
	}, description)
}

// NewCustom создает пользовательскую операцию с произвольными данными.
func NewCustom(name string, data []byte, description string) Operation {
	return newOperation(CustomPayload{
		Name: name,
		Data: data,
	}, description)
}
