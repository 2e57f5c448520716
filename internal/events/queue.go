package events

import (
	"sort"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/model"

	"github.com/shopspring/decimal"
)

// Queue keeps events ordered by date, then kind priority, then insertion
// order. Events are held by pointer so a patched minimum is visible to every
// reader.
type Queue struct {
	events []*model.Event
	seq    int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func less(a, b *model.Event) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c < 0
	}
	if pa, pb := a.Kind.Priority(), b.Kind.Priority(); pa != pb {
		return pa < pb
	}
	return a.Seq < b.Seq
}

// Push inserts an event in sorted position and returns the stored copy.
func (q *Queue) Push(ev model.Event) *model.Event {
	q.seq++
	ev.Seq = q.seq
	stored := &ev
	i := sort.Search(len(q.events), func(i int) bool { return less(stored, q.events[i]) })
	q.events = append(q.events, nil)
	copy(q.events[i+1:], q.events[i:])
	q.events[i] = stored
	return stored
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// All returns every event in order.
func (q *Queue) All() []*model.Event {
	return append([]*model.Event(nil), q.events...)
}

// firstOnOrAfter is the index of the first event dated on or after d.
func (q *Queue) firstOnOrAfter(d calendar.Date) int {
	return sort.Search(len(q.events), func(i int) bool { return !q.events[i].Date.Before(d) })
}

// On returns the events dated d in processing order.
func (q *Queue) On(d calendar.Date) []*model.Event {
	return q.Between(d, d)
}

// Between returns the events dated from through to, both inclusive.
func (q *Queue) Between(from, to calendar.Date) []*model.Event {
	if to.Before(from) {
		return nil
	}
	lo := q.firstOnOrAfter(from)
	hi := q.firstOnOrAfter(to.AddDays(1))
	return append([]*model.Event(nil), q.events[lo:hi]...)
}

// FindMinimum returns the minimum-payment event for a debt on a date.
func (q *Queue) FindMinimum(d calendar.Date, debt int) *model.Event {
	for i := q.firstOnOrAfter(d); i < len(q.events) && q.events[i].Date.Equal(d); i++ {
		ev := q.events[i]
		if ev.Kind == model.KindMinimum && ev.Debt == debt {
			return ev
		}
	}
	return nil
}

// UpsertMinimum rewrites the amount of an existing minimum-payment event or
// inserts a new one. A missing event is only created for a positive amount.
func (q *Queue) UpsertMinimum(d calendar.Date, debt int, amount decimal.Decimal, description string) *model.Event {
	if ev := q.FindMinimum(d, debt); ev != nil {
		ev.Amount = amount
		return ev
	}
	if !amount.IsPositive() {
		return nil
	}
	return q.Push(model.Event{
		Date:        d,
		Kind:        model.KindMinimum,
		Amount:      amount,
		Description: description,
		Debt:        debt,
	})
}
