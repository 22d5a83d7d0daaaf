package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellA1(t *testing.T) {
	assert.Equal(t, "Automatedtest!A2", Cell{Sheet: "Automatedtest", Column: "A", Row: 2}.A1())
	assert.Equal(t, "AB10", Cell{Column: "AB", Row: 10}.A1())
}

func TestMetricsPairs(t *testing.T) {
	assert.Equal(t, []string{"count:1", "error_count:0"}, Metrics{Count: 1}.Pairs())
	assert.Equal(t, []string{"count:1", "error_count:1"}, Metrics{Count: 1, ErrorCount: 1}.Pairs())
}

func TestRunResultDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	r := &RunResult{Started: start}
	assert.Zero(t, r.Duration())

	r.Finished = start.Add(7 * time.Second)
	assert.Equal(t, 7*time.Second, r.Duration())
}

func TestActionRecordOK(t *testing.T) {
	assert.True(t, ActionRecord{Action: "click"}.OK())
	assert.False(t, ActionRecord{Action: "click", Err: errors.New("boom")}.OK())
}
