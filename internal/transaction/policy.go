package transaction

// TransitionPolicy decides whether a transaction may move from one known
// status to another. It is the only place transition rules live.
type TransitionPolicy func(from, to Status) bool

// PermissiveTransitions allows every move between known statuses, including
// reopening completed or cancelled transactions.
func PermissiveTransitions(from, to Status) bool {
	return true
}

var forward = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ForwardOnlyTransitions allows pending -> in_progress -> completed and
// cancelling any non-terminal transaction. Writing the current status again
// is allowed so retried requests stay idempotent.
func ForwardOnlyTransitions(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyFor returns the policy selected by the strict_status_flow setting.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return ForwardOnlyTransitions
	}
	return PermissiveTransitions
}
