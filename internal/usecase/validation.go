package usecase

import domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"

// ValidateQuantity checks a purchase quantity against the product's
// configured minimum.
func ValidateQuantity(quantity, minPurchase int) error {
	if minPurchase < 1 {
		minPurchase = 1
	}
	if quantity < minPurchase {
		return domainErrors.ErrInvalidQuantity
	}
	return nil
}

// ValidateRating checks a buyer rating is within the 1..5 scale.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return domainErrors.ErrInvalidRating
	}
	return nil
}
