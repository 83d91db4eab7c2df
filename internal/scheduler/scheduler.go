package scheduler

import "math"

// CounterShare is one active counter able to handle a service, together
// with the total number of services that counter splits its attention
// across.
type CounterShare struct {
	CounterID    string
	ServiceCount int
}

// ServiceQueue is the load snapshot for one service a counter handles.
// Callers build the slice in the counter's configured service order;
// that order decides ties in Select.
type ServiceQueue struct {
	ServiceID   string
	QueueLength int
	ServiceTime int
	Shares      []CounterShare
}

// Density is the aggregate serving capacity the active counters
// contribute to a service. A counter handling n services contributes
// 1/n, since it splits its attention across all of them.
func Density(shares []CounterShare) float64 {
	var density float64
	for _, share := range shares {
		if share.ServiceCount <= 0 {
			continue
		}
		density += 1.0 / float64(share.ServiceCount)
	}
	return density
}

// EstimatedWait scores a queue as (length/density + 0.5) * serviceTime.
// Zero density means no active counter currently handles the service;
// the wait is then effectively infinite.
func EstimatedWait(queueLength int, density float64, serviceTime int) float64 {
	if queueLength <= 0 {
		return 0
	}
	if density <= 0 {
		return math.Inf(1)
	}
	return (float64(queueLength)/density + 0.5) * float64(serviceTime)
}

// Select picks the service whose queue the counter should draw from
// next: the highest estimated wait among services with waiting
// customers. Ties go to the service listed later in the counter's
// service list. The second return is false when every queue is empty.
func Select(queues []ServiceQueue) (string, bool) {
	selected := ""
	maxWait := 0.0
	for _, queue := range queues {
		if queue.QueueLength <= 0 {
			continue
		}
		wait := EstimatedWait(queue.QueueLength, Density(queue.Shares), queue.ServiceTime)
		if selected == "" || wait >= maxWait {
			maxWait = wait
			selected = queue.ServiceID
		}
	}
	return selected, selected != ""
}
