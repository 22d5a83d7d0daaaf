package entity

// Status — значение, которое пишется в ячейку таблицы.
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
)

func (s Status) String() string {
	return string(s)
}
