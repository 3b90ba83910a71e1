package dispense

import "github.com/vendstack/barkeep/internal/domain"

// DropInput identifies one dispense request: who, which machine, which slot.
type DropInput struct {
	Username string
	Machine  string
	Slot     int32
}

func (in DropInput) validate() error {
	var missing []string
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Machine == "" {
		missing = append(missing, "machine")
	}
	if len(missing) > 0 {
		return domain.NewMissingParamsError(missing...)
	}
	if in.Slot < 1 {
		return domain.NewValidationError("slot", "must be a positive slot number")
	}
	return nil
}
