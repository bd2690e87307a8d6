package models

// MaintenanceReport summarizes one reconciliation pass.
type MaintenanceReport struct {
	TotalMovies int      `json:"total_movies"`
	Reconciled  int      `json:"reconciled"`
	Errors      []string `json:"errors,omitempty"`
}

// MaintenanceSummary reports counter drift without repairing it.
type MaintenanceSummary struct {
	MoviesWithPendingReviewWrites int64 `json:"movies_with_pending_review_writes"`
	MoviesWithPendingListWrites   int64 `json:"movies_with_pending_list_writes"`
}
