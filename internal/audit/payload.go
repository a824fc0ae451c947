package audit

import (
	"github.com/shopgrove/marketplace/internal/domain"
)

// LoginEvent builds the audit record for a completed login attempt. The form
// argument carries the raw submitted fields for traceability.
func LoginEvent(userID string, status int, message, email string, role domain.Role, counter int, form map[string]interface{}) domain.AuditEvent {
	return domain.AuditEvent{
		Kind:   domain.AuditEventLogin,
		UserID: userID,
		Payload: map[string]interface{}{
			"status":   status,
			"message":  message,
			"email":    email,
			"role":     string(role),
			"counter":  counter,
			"formData": form,
		},
	}
}

// ProductViewEvent builds the audit record for a product detail view.
func ProductViewEvent(userID string, product *domain.Product) domain.AuditEvent {
	return domain.AuditEvent{
		Kind:   domain.AuditEventProductView,
		UserID: userID,
		Payload: map[string]interface{}{
			"asin":         product.ASIN,
			"productTitle": product.Title,
			"category":     product.Category,
			"price":        product.Price,
		},
	}
}
