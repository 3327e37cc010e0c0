package core_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

func TestSchedulerOrder(t *testing.T) {
	s := core.NewScheduler()
	var got []string
	add := func(name string) func(core.Token) {
		return func(core.Token) { got = append(got, name) }
	}

	s.Schedule(2*time.Second, core.Token{Epoch: 1}, add("c"))
	s.Schedule(time.Second, core.Token{Epoch: 1}, add("a"))
	s.Schedule(time.Second, core.Token{Epoch: 1}, add("b"))

	if n := s.Advance(500 * time.Millisecond); n != 0 {
		t.Errorf("Advance before deadline ran %d tasks", n)
	}
	s.Advance(time.Second)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("after 1s ran %v, want [a b]", got)
	}
	s.Advance(5 * time.Second)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("after 5s ran %v, want [a b c]", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestSchedulerPassesToken(t *testing.T) {
	s := core.NewScheduler()
	want := core.Token{Epoch: 3, Generation: 7}
	var got core.Token
	s.Schedule(0, want, func(tok core.Token) { got = tok })
	s.Advance(0)
	if got != want {
		t.Errorf("token = %+v, want %+v", got, want)
	}
}

func TestSchedulerCancelBefore(t *testing.T) {
	s := core.NewScheduler()
	ran := map[uint64]bool{}
	for epoch := uint64(1); epoch <= 3; epoch++ {
		s.Schedule(time.Second, core.Token{Epoch: epoch}, func(tok core.Token) { ran[tok.Epoch] = true })
	}

	s.CancelBefore(3)
	s.Advance(time.Minute)

	if ran[1] || ran[2] {
		t.Error("cancelled tasks ran")
	}
	if !ran[3] {
		t.Error("current epoch task did not run")
	}
}

func TestSchedulerNestedDueTask(t *testing.T) {
	s := core.NewScheduler()
	count := 0
	s.Schedule(time.Second, core.Token{}, func(core.Token) {
		count++
		s.Schedule(time.Second, core.Token{}, func(core.Token) { count++ })
		s.Schedule(3*time.Second, core.Token{}, func(core.Token) { count++ })
	})

	s.Advance(2 * time.Second)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}
