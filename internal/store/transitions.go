package store

import "officeq/queue-service/internal/models"

// Every action requires the ticket to still be waiting; served and
// not_served are terminal.
var transitionMap = map[string][]string{
	"assign":    {models.StatusWaiting},
	"serve":     {models.StatusWaiting},
	"not_serve": {models.StatusWaiting},
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

func Terminal(status string) bool {
	return status == models.StatusServed || status == models.StatusNotServed
}
