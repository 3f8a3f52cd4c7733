package focus

import "sync"

type State string

const (
	StateFocused State = "FOCUSED"
	StateAtRisk  State = "AT_RISK"
	StateLost    State = "LOST"
)

const (
	MaxScore = 100
	MinScore = 0

	lostBelow   = 40
	atRiskBelow = 70
)

const (
	DefaultMessage = "I am here to help you stay focused."
	focusedMessage = "You are doing great. Keep going."
	atRiskMessage  = "Your focus is dipping. Try to finish this section before your mind wanders."
	lostMessage    = "I noticed you might be struggling to focus. Let's try a different view or take a 60-second break."
)

// StateFor maps a score value onto the behavioural state.
func StateFor(value int) State {
	switch {
	case value < lostBelow:
		return StateLost
	case value < atRiskBelow:
		return StateAtRisk
	default:
		return StateFocused
	}
}

func MessageFor(s State) string {
	switch s {
	case StateLost:
		return lostMessage
	case StateAtRisk:
		return atRiskMessage
	default:
		return focusedMessage
	}
}

// Snapshot is an immutable view of a Score.
type Snapshot struct {
	Value   int    `json:"value"`
	State   State  `json:"state"`
	Message string `json:"message"`
}

// Score is the bounded focus score shared by the detectors of one tracked
// session. State and message only change through SetScore.
type Score struct {
	mu      sync.Mutex
	snap    Snapshot
	nextID  int
	watches map[int]func(Snapshot)
}

func NewScore() *Score {
	return &Score{
		snap:    Snapshot{Value: MaxScore, State: StateFocused, Message: DefaultMessage},
		watches: make(map[int]func(Snapshot)),
	}
}

func (s *Score) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Score) Value() int { return s.Snapshot().Value }

func (s *Score) State() State { return s.Snapshot().State }

// SetScore clamps v to [0,100] and recomputes state and message.
func (s *Score) SetScore(v int) Snapshot {
	return s.update(func(int) int { return v })
}

// DecreaseScore subtracts amount; negative amounts count as zero.
func (s *Score) DecreaseScore(amount int) Snapshot {
	if amount < 0 {
		amount = 0
	}
	return s.adjust(-amount)
}

// IncreaseScore adds amount; negative amounts count as zero.
func (s *Score) IncreaseScore(amount int) Snapshot {
	if amount < 0 {
		amount = 0
	}
	return s.adjust(amount)
}

func (s *Score) adjust(delta int) Snapshot {
	return s.update(func(cur int) int { return cur + delta })
}

func (s *Score) update(next func(cur int) int) Snapshot {
	s.mu.Lock()
	v := next(s.snap.Value)
	if v > MaxScore {
		v = MaxScore
	}
	if v < MinScore {
		v = MinScore
	}
	state := StateFor(v)
	s.snap = Snapshot{Value: v, State: state, Message: MessageFor(state)}
	snap := s.snap
	watches := s.watchList()
	s.mu.Unlock()

	notify(watches, snap)
	return snap
}

// ResetFocus restores 100 / FOCUSED / default message.
func (s *Score) ResetFocus() Snapshot {
	s.mu.Lock()
	s.snap = Snapshot{Value: MaxScore, State: StateFocused, Message: DefaultMessage}
	snap := s.snap
	watches := s.watchList()
	s.mu.Unlock()

	notify(watches, snap)
	return snap
}

// Watch registers fn for every change; the returned func removes it.
func (s *Score) Watch(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watches[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watches, id)
			s.mu.Unlock()
		})
	}
}

func (s *Score) watchList() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.watches))
	for _, fn := range s.watches {
		out = append(out, fn)
	}
	return out
}

func notify(watches []func(Snapshot), snap Snapshot) {
	for _, fn := range watches {
		func() {
			defer func() { _ = recover() }()
			fn(snap)
		}()
	}
}
