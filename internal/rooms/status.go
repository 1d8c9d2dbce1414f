package rooms

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusCompleted       Status = "completed"
)

// Vendor actions only ever move an order forward; nothing returns to
// pending_approval.
var validNext = map[Status]map[Status]bool{
	StatusPendingApproval: {StatusApproved: true, StatusRejected: true},
	StatusApproved:        {StatusCompleted: true},
	StatusRejected:        {},
	StatusCompleted:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
