package entity

import "time"

// Стадии проверки, на которых может случиться ошибка.
const (
	StageSite      = "site"
	StageLogin     = "login"
	StageCancelled = "cancelled" // прогон прерван снаружи, в отчёты не попадает
)

// RunResult — итог одного прогона проверки.
type RunResult struct {
	Series   string
	Status   Status
	Stage    string // стадия, на которой упали; пусто при успехе
	Err      error
	Steps    []ActionRecord
	Started  time.Time
	Finished time.Time
}

// Duration возвращает длительность прогона.
func (r *RunResult) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
