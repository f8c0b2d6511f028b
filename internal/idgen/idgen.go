// Package idgen генерирует уникальные идентификаторы операций.
//
// Идентификаторы монотонно возрастают в пределах процесса и никогда
// не переиспользуются. Генератор изолирован за отдельным типом, чтобы
// тесты могли создавать собственные экземпляры или сбрасывать
// генератор по умолчанию и оставаться детерминированными.
package idgen

import "sync/atomic"

// Generator потокобезопасный генератор монотонно возрастающих идентификаторов.
type Generator struct {
	counter atomic.Uint64 // монотонно возрастающий счетчик
}

// NewGenerator создает новый генератор, начинающий с 1.
// Значение 0 зарезервировано как sentinel "операции нет".
func NewGenerator() *Generator {
	return &Generator{}
}

// Next возвращает следующий уникальный идентификатор.
func (g *Generator) Next() uint64 {
	return g.counter.Add(1)
}

// Reset сбрасывает счетчик к заданному значению.
// Следующий вызов Next вернет seed+1. Используется в тестах.
func (g *Generator) Reset(seed uint64) {
	g.counter.Store(seed)
}

// Advance поднимает счетчик как минимум до floor, никогда не опуская его.
// Используется при восстановлении дерева из снимка, чтобы новые
// идентификаторы не пересекались с уже выданными.
func (g *Generator) Advance(floor uint64) {
	for {
		current := g.counter.Load()
		if current >= floor {
			return
		}
		if g.counter.CompareAndSwap(current, floor) {
			return
		}
	}
}

// Current возвращает последнее выданное значение без изменения счетчика.
func (g *Generator) Current() uint64 {
	return g.counter.Load()
}

// defaultGenerator генератор по умолчанию для всего процесса
var defaultGenerator = NewGenerator()

// Next возвращает следующий идентификатор из генератора по умолчанию.
func Next() uint64 {
	return defaultGenerator.Next()
}

// Reset сбрасывает генератор по умолчанию. Используется в тестах.
func Reset(seed uint64) {
	defaultGenerator.Reset(seed)
}

// Advance поднимает генератор по умолчанию как минимум до floor.
func Advance(floor uint64) {
	defaultGenerator.Advance(floor)
}
