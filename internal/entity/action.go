package entity

import "time"

// ActionRecord — запись об одном выполненном шаге проверки
// (открыть сайт, кликнуть кнопку, ввести email и т.д.)
type ActionRecord struct {
	Action   string        // navigate, click, type, wait
	Target   string        // URL, XPath или тег
	Duration time.Duration // сколько занял шаг
	Err      error         // nil, если шаг прошёл
}

// OK сообщает, завершился ли шаг без ошибки.
func (r ActionRecord) OK() bool {
	return r.Err == nil
}
