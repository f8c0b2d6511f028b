package session

import "errors"

var (
	// ErrJournalFailed операция записана в дерево истории, но дописать
	// журнал аудита не удалось. Повторять Record с той же операцией
	// нельзя: она уже учтена.
	ErrJournalFailed = errors.New("operation recorded but journal append failed")
)
