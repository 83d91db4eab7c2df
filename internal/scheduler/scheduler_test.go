package scheduler

import (
	"math"
	"testing"
)

func TestDensity(t *testing.T) {
	shares := []CounterShare{
		{CounterID: "c1", ServiceCount: 1},
		{CounterID: "c2", ServiceCount: 2},
		{CounterID: "c3", ServiceCount: 4},
	}
	if got := Density(shares); got != 1.75 {
		t.Fatalf("Density=%v, want 1.75", got)
	}
	if got := Density(nil); got != 0 {
		t.Fatalf("Density(nil)=%v, want 0", got)
	}
	if got := Density([]CounterShare{{CounterID: "c1", ServiceCount: 0}}); got != 0 {
		t.Fatalf("Density with zero service count=%v, want 0", got)
	}
}

func TestEstimatedWait(t *testing.T) {
	// (10/1 + 0.5) * 5 = 52.5
	if got := EstimatedWait(10, 1, 5); got != 52.5 {
		t.Fatalf("EstimatedWait=%v, want 52.5", got)
	}
	if got := EstimatedWait(0, 1, 5); got != 0 {
		t.Fatalf("EstimatedWait with empty queue=%v, want 0", got)
	}
	if got := EstimatedWait(3, 0, 5); !math.IsInf(got, 1) {
		t.Fatalf("EstimatedWait with zero density=%v, want +Inf", got)
	}
}

func TestSelectLongQueueWins(t *testing.T) {
	one := []CounterShare{{CounterID: "c1", ServiceCount: 2}}
	queues := []ServiceQueue{
		// (10/0.5 + 0.5) * 5 = 102.5
		{ServiceID: "A", QueueLength: 10, ServiceTime: 5, Shares: one},
		// (1/0.5 + 0.5) * 10 = 25
		{ServiceID: "B", QueueLength: 1, ServiceTime: 10, Shares: one},
	}
	serviceID, ok := Select(queues)
	if !ok || serviceID != "A" {
		t.Fatalf("Select=%q ok=%v, want A", serviceID, ok)
	}
}

func TestSelectSlowServiceWins(t *testing.T) {
	one := []CounterShare{{CounterID: "c1", ServiceCount: 1}}
	queues := []ServiceQueue{
		// (10/1 + 0.5) * 5 = 52.5
		{ServiceID: "A", QueueLength: 10, ServiceTime: 5, Shares: one},
		// (1/1 + 0.5) * 100 = 150
		{ServiceID: "B", QueueLength: 1, ServiceTime: 100, Shares: one},
	}
	serviceID, ok := Select(queues)
	if !ok || serviceID != "B" {
		t.Fatalf("Select=%q ok=%v, want B", serviceID, ok)
	}
}

func TestSelectTieGoesToLastListed(t *testing.T) {
	one := []CounterShare{{CounterID: "c1", ServiceCount: 1}}
	queues := []ServiceQueue{
		{ServiceID: "A", QueueLength: 2, ServiceTime: 10, Shares: one},
		{ServiceID: "B", QueueLength: 2, ServiceTime: 10, Shares: one},
	}
	serviceID, ok := Select(queues)
	if !ok || serviceID != "B" {
		t.Fatalf("Select=%q ok=%v, want B (last listed wins ties)", serviceID, ok)
	}
}

func TestSelectSkipsEmptyQueues(t *testing.T) {
	one := []CounterShare{{CounterID: "c1", ServiceCount: 1}}
	queues := []ServiceQueue{
		{ServiceID: "A", QueueLength: 0, ServiceTime: 1000, Shares: one},
		{ServiceID: "B", QueueLength: 1, ServiceTime: 1, Shares: one},
	}
	serviceID, ok := Select(queues)
	if !ok || serviceID != "B" {
		t.Fatalf("Select=%q ok=%v, want B", serviceID, ok)
	}
}

func TestSelectAllEmpty(t *testing.T) {
	queues := []ServiceQueue{
		{ServiceID: "A", QueueLength: 0, ServiceTime: 5},
		{ServiceID: "B", QueueLength: 0, ServiceTime: 10},
	}
	if serviceID, ok := Select(queues); ok {
		t.Fatalf("Select on empty queues returned %q, want none", serviceID)
	}
	if _, ok := Select(nil); ok {
		t.Fatalf("Select(nil) returned a service, want none")
	}
}

func TestSelectZeroDensityStillSelectable(t *testing.T) {
	queues := []ServiceQueue{
		{ServiceID: "A", QueueLength: 5, ServiceTime: 5, Shares: []CounterShare{{CounterID: "c1", ServiceCount: 1}}},
		{ServiceID: "B", QueueLength: 1, ServiceTime: 5, Shares: nil},
	}
	serviceID, ok := Select(queues)
	if !ok || serviceID != "B" {
		t.Fatalf("Select=%q ok=%v, want B (infinite estimated wait)", serviceID, ok)
	}
}
