package content

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"later/internal/domain"
)

// isUUID accepts string and *string values holding a UUID; nil and empty
// values are left to Required.
var isUUID = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return errors.New("must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
})

// notBlank rejects strings that are empty after trimming
var notBlank = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

func validationErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// normalizeParent treats an empty parent id as the container root
func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	p := *parentID
	return &p
}
