package entity

import "strconv"

// Metrics — числовые метрики, которые прикладываются к пингу.
type Metrics struct {
	Count      int
	ErrorCount int
}

// Pairs кодирует метрики в формат "name:value".
func (m Metrics) Pairs() []string {
	return []string{
		"count:" + strconv.Itoa(m.Count),
		"error_count:" + strconv.Itoa(m.ErrorCount),
	}
}

// PingEvent — одно событие для мониторинга.
type PingEvent struct {
	State   string // состояние телеметрии Cronitor ("run", "fail", ...); пусто — обычный heartbeat
	Message string
	Metrics *Metrics
}
