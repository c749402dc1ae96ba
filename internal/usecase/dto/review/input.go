package reviewdto

import "github.com/agrisetu/agri-trade-service/internal/domain"

type SubmitReviewInput struct {
	LedgerID     string
	ReviewerID   string
	ReviewerRole string
	Rating       int
	Title        string
	Comment      string
	Categories   domain.CategoryRatings
}
