package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name  string
		state State
		text  string
		want  Transition
	}{
		{"Start command opens dialogue", AwaitingStart, "/start", Transition{Next: AwaitingSalary, Action: ActionGreet}},
		{"Any first message greets", AwaitingStart, "hello", Transition{Next: AwaitingSalary, Action: ActionGreet}},
		{"Start with bot name", Done, "/start@overwork_bot", Transition{Next: AwaitingSalary, Action: ActionGreet}},
		{"Start restarts salary prompt", AwaitingSalary, "/start", Transition{Next: AwaitingSalary, Action: ActionGreet}},
		{"Valid salary", AwaitingSalary, "60000", Transition{Next: Done, Action: ActionGenerate, Salary: 60000}},
		{"Salary with spaces", AwaitingSalary, " 60 000 ", Transition{Next: Done, Action: ActionGenerate, Salary: 60000}},
		{"Zero salary", AwaitingSalary, "0", Transition{Next: Done, Action: ActionGenerate}},
		{"Garbage", AwaitingSalary, "a lot", Transition{Next: AwaitingSalary, Action: ActionRetry}},
		{"Negative", AwaitingSalary, "-5", Transition{Next: AwaitingSalary, Action: ActionRetry}},
		{"Fraction", AwaitingSalary, "100.5", Transition{Next: AwaitingSalary, Action: ActionRetry}},
		{"Text after done", Done, "70000", Transition{Next: Done, Action: ActionHint}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Step(tt.state, tt.text))
		})
	}
}

func TestParseSalary(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"50000", 50000, false},
		{"1 250 000", 1250000, false},
		{"0", 0, false},
		{"", 0, true},
		{"   ", 0, true},
		{"12abc", 0, true},
		{"+100", 0, true},
		{"99999999999999999999999", 0, true},
		{"1000000001", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSalary(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessions_Advance(t *testing.T) {
	s := NewSessions()
	assert.Equal(t, AwaitingStart, s.Get(1))

	assert.Equal(t, ActionGreet, s.Advance(1, "/start").Action)
	assert.Equal(t, AwaitingSalary, s.Get(1))
	assert.Equal(t, AwaitingStart, s.Get(2))

	assert.Equal(t, ActionRetry, s.Advance(1, "much").Action)
	assert.Equal(t, AwaitingSalary, s.Get(1))

	tr := s.Advance(1, "42000")
	assert.Equal(t, ActionGenerate, tr.Action)
	assert.Equal(t, 42000, tr.Salary)
	assert.Equal(t, Done, s.Get(1))
}

func TestSessions_Concurrent(t *testing.T) {
	s := NewSessions()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(chat int64) {
			defer wg.Done()
			s.Advance(chat, "/start")
			s.Advance(chat, "1000")
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		assert.Equal(t, Done, s.Get(i))
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_salary", AwaitingSalary.String())
	assert.Equal(t, "State(7)", State(7).String())
}
