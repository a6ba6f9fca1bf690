package orchestrator

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tableserve/captain/pkg/enums"
	pkgerrors "github.com/tableserve/captain/pkg/errors"
)

func validateRequest(req PrintRequest) error {
	if !req.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid print action %q", req.Action))
	}
	if len(req.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	var lineErrs error
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("invalid quantity %d for %q", line.Quantity, line.Name))
		}
	}
	if lineErrs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, lineErrs, "cart has invalid lines")
	}
	if req.Customer.Mobile != "" && !isValidMobile(req.Customer.Mobile) {
		return pkgerrors.New(pkgerrors.CodeValidation, "mobile number must be 10 digits starting with 6-9")
	}
	if req.Payment.Status == enums.PaymentStatusPaid && !req.Payment.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method is required for a paid order")
	}
	return nil
}

// isValidMobile accepts Indian mobile numbers: exactly 10 digits with the
// first digit in 6-9.
func isValidMobile(value string) bool {
	if len(value) != 10 {
		return false
	}
	if value[0] < '6' || value[0] > '9' {
		return false
	}
	for i := 1; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
