package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bellenoire/salon-api/internal/httperr"
)

// writeBusinessError maps a domain rule violation to its HTTP status. Any
// non-business error is reported as a 500 without leaking its details.
func writeBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
		return
	}

	switch be.Code {
	case httperr.CodeNotFound:
		httperr.NotFound(c, be.Code, "Ressource introuvable.")
	case httperr.CodeValidation:
		httperr.BadRequest(c, be.Code, "Données invalides.")
	case httperr.CodeDiscountCodeInvalid:
		httperr.BadRequest(c, be.Code, "Code promo invalide ou expiré.")
	case httperr.CodeAlreadyRefunded:
		httperr.BadRequest(c, be.Code, "Cette vente a déjà été remboursée.")
	case httperr.CodeSlotConflict:
		httperr.Conflict(c, be.Code, "Ce créneau vient d'être réservé.")
	case httperr.CodeInvalidState:
		httperr.Conflict(c, be.Code, "Opération impossible dans l'état actuel.")
	case httperr.CodeTransactionConflict:
		httperr.Conflict(c, be.Code, "Conflit de transaction, veuillez réessayer.")
	default:
		httperr.Internal(c, "internal_error", "Une erreur interne est survenue.")
	}
}
