package models

import "time"

// Analysis is the engine's read-only view of a due-diligence analysis.
// It is produced by the document analysis pipeline; the auction engine only
// checks existence and borrows the loan name at auction creation.
type Analysis struct {
	ID        string    `json:"id"`
	LoanName  string    `json:"loan_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
