package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// State is the dialogue position of one chat
type State int

const (
	AwaitingStart State = iota
	AwaitingSalary
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingStart:
		return "awaiting_start"
	case AwaitingSalary:
		return "awaiting_salary"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action tells the bot what to do with a message
type Action int

const (
	// ActionGreet greets the user and asks for the salary
	ActionGreet Action = iota
	// ActionRetry asks for the salary again after unparsable input
	ActionRetry
	// ActionGenerate builds and sends the timesheet
	ActionGenerate
	// ActionHint reminds a finished chat how to start over
	ActionHint
)

// Transition is the result of feeding one message to the dialogue
type Transition struct {
	Next   State
	Action Action
	Salary int
}

const startCommand = "/start"

// MaxSalary bounds accepted salaries
const MaxSalary = 1_000_000_000

var errNotSalary = errors.New("not a salary")

// Step feeds a message text to the dialogue in state s
func Step(s State, text string) Transition {
	text = strings.TrimSpace(text)
	if isStart(text) {
		return Transition{Next: AwaitingSalary, Action: ActionGreet}
	}

	switch s {
	case AwaitingSalary:
		salary, err := ParseSalary(text)
		if err != nil {
			return Transition{Next: AwaitingSalary, Action: ActionRetry}
		}
		return Transition{Next: Done, Action: ActionGenerate, Salary: salary}
	case Done:
		return Transition{Next: Done, Action: ActionHint}
	default:
		// first contact of any kind opens the dialogue
		return Transition{Next: AwaitingSalary, Action: ActionGreet}
	}
}

func isStart(text string) bool {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == startCommand
}

// ParseSalary reads a non-negative whole salary; digit group spaces are allowed
func ParseSalary(text string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if digits == "" {
		return 0, errNotSalary
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: unexpected %q", errNotSalary, r)
		}
	}

	salary, err := strconv.Atoi(digits)
	if err != nil || salary > MaxSalary {
		return 0, fmt.Errorf("%w: out of range", errNotSalary)
	}
	return salary, nil
}

// Sessions keeps the dialogue state per chat in memory
type Sessions struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewSessions creates an empty session store
func NewSessions() *Sessions {
	return &Sessions{states: make(map[int64]State)}
}

// Get returns the state of a chat, AwaitingStart for unknown chats
func (s *Sessions) Get(chatID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[chatID]
}

// Set stores the state of a chat
func (s *Sessions) Set(chatID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = state
}

// Advance applies Step to the chat's state atomically and returns the transition
func (s *Sessions) Advance(chatID int64, text string) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Step(s.states[chatID], text)
	s.states[chatID] = t.Next
	return t
}
