package provider

import (
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common"
)

var (
	ErrThrottled      = errors.New("rate limit exhausted")
	ErrMalformedOffer = errors.New("malformed offer")
	ErrNotConfigured  = errors.New("provider not configured")
	ErrTemporary      = errors.New("temporary upstream error")
)

// Adapter hides one upstream source of offers. A successful search with no
// offers returns an empty slice and a nil error.
type Adapter interface {
	Name() string
	Search(ctx context.Context, params common.SearchParams) ([]common.Offer, error)
}

type Kind string

const (
	KindTransport = Kind("transport")
	KindTimeout   = Kind("timeout")
	KindThrottled = Kind("throttled")
	KindMalformed = Kind("malformed")
)

type Error struct {
	Provider string
	Kind     Kind
	Err      error
}

func NewError(provider string, kind Kind, err error) *Error {
	return &Error{
		Provider: provider,
		Kind:     kind,
		Err:      err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err into an *Error for provider, keeping an existing *Error as-is.
func Classify(provider string, err error) *Error {
	if err == nil {
		return nil
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(provider, KindTimeout, err)
	case errors.Is(err, ErrThrottled):
		return NewError(provider, KindThrottled, err)
	case errors.Is(err, ErrMalformedOffer), errors.Is(err, common.ErrInvalidOffer):
		return NewError(provider, KindMalformed, err)
	}

	return NewError(provider, KindTransport, err)
}

// CheckOffers fails the whole result if any offer is invalid or ids repeat.
func CheckOffers(offers []common.Offer) error {
	var errs []error
	ids := make(map[string]struct{}, len(offers))
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			errs = append(errs, err)
		}

		if _, ok := ids[o.Id]; ok {
			errs = append(errs, fmt.Errorf("duplicate offer id %q", o.Id))
		}

		ids[o.Id] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMalformedOffer, errors.Join(errs...))
	}

	return nil
}
