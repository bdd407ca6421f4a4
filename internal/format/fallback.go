package format

import (
	"errors"
	"fmt"

	"github.com/mgpai22/subx/internal/logging"
	"github.com/mgpai22/subx/internal/transcript"
	"go.uber.org/multierr"
)

// Attempt is one step in an ordered list of decoders to try.
type Attempt struct {
	Name   string
	Decode func() (*transcript.Transcript, error)
}

// DecodeFirst runs attempts in order and returns the first success. Every
// failure is logged; if all fail the combined error is returned.
func DecodeFirst(logger *logging.Logger, attempts ...Attempt) (*transcript.Transcript, error) {
	if len(attempts) == 0 {
		return nil, errors.New("no decode attempts given")
	}

	var errs error
	for i, a := range attempts {
		t, err := a.Decode()
		if err == nil {
			if i > 0 {
				logger.Infow("decoded input using fallback", "parser", a.Name)
			} else {
				logger.Debugw("decoded input", "parser", a.Name)
			}
			return t, nil
		}

		logger.Debugw("decode attempt failed",
			"parser", a.Name,
			"error", err,
		)
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", a.Name, err))
	}

	return nil, errs
}
