package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

// Wizard steps of the security flow.
const (
	StepIdentity = 1
	StepLocation = 2
	StepDetails  = 3
	StepReview   = 4
)

// LocateTimeout bounds a single geolocation attempt.
const LocateTimeout = 10 * time.Second

// ErrLocateTimeout is returned when no position arrives within LocateTimeout.
var ErrLocateTimeout = errors.New("location not acquired within 10 seconds")

// Locator acquires the current device position. Implementations must not
// return a cached position.
type Locator interface {
	Locate(ctx context.Context) (vo.Coordinates, error)
}

// SecurityWizard collects a security report in four steps. Each step is
// validated on its own when advancing; going back never validates.
type SecurityWizard struct {
	step    int
	payload SecurityPayload
}

func NewSecurityWizard() *SecurityWizard {
	return &SecurityWizard{step: StepIdentity}
}

func (w *SecurityWizard) Step() int {
	return w.step
}

func (w *SecurityWizard) Payload() SecurityPayload {
	return w.payload
}

func (w *SecurityWizard) SetIdentity(name, phone string) {
	w.payload.Name = name
	w.payload.Phone = phone
}

// SetAddress sets a manual address and clears any coordinates.
func (w *SecurityWizard) SetAddress(address string) {
	w.payload.Address = address
	w.payload.Location = nil
}

// SetCoordinates sets the position and clears any manual address.
func (w *SecurityWizard) SetCoordinates(c vo.Coordinates) {
	w.payload.Location = &c
	w.payload.Address = ""
}

func (w *SecurityWizard) SetDetails(category, description, urgency string) {
	w.payload.Category = category
	w.payload.Description = description
	w.payload.Urgency = urgency
}

// Locate asks the locator for a fresh position, bounded by LocateTimeout.
// On failure the current location fields stay untouched.
func (w *SecurityWizard) Locate(ctx context.Context, locator Locator) error {
	ctx, cancel := context.WithTimeout(ctx, LocateTimeout)
	defer cancel()

	type result struct {
		c   vo.Coordinates
		err error
	}
	done := make(chan result, 1)
	go func() {
		c, err := locator.Locate(ctx)
		done <- result{c: c, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrLocateTimeout
		}
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("failed to acquire location: %w", res.err)
		}
		c, err := vo.NewCoordinates(res.c.Lat, res.c.Lon)
		if err != nil {
			return err
		}
		w.SetCoordinates(c)
		return nil
	}
}

// Next validates the current step and advances. On the review step it
// validates the whole payload and stays on review.
func (w *SecurityWizard) Next() error {
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back moves one step back without validation.
func (w *SecurityWizard) Back() {
	if w.step > StepIdentity {
		w.step--
	}
}

// Complete validates everything and returns the payload ready for submission.
func (w *SecurityWizard) Complete() (SecurityPayload, error) {
	if err := w.payload.Validate(); err != nil {
		return SecurityPayload{}, err
	}
	return w.payload, nil
}

func (w *SecurityWizard) validateStep(step int) error {
	switch step {
	case StepIdentity:
		return w.payload.ValidateIdentity()
	case StepLocation:
		return w.payload.ValidateLocation()
	case StepDetails:
		return w.payload.ValidateDetails()
	default:
		return w.payload.Validate()
	}
}
