package engine

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/errs"
)

// resolve translates a native status code, prefixing the kind's default message with op.
func resolve(code int, op string) error {
	base := errs.Resolve(code, "")
	if base == nil {
		return nil
	}

	var e *errs.Error
	if !errors.As(base, &e) {
		return base
	}

	return errs.Resolve(code, op+": "+e.Message)
}

func logFailure(logger zerolog.Logger, err error, op string) {
	if err == nil {
		return
	}

	logger.Error().
		Err(err).
		Int("code", errs.CodeOf(err)).
		Str("kind", errs.KindOf(err).String()).
		Msg(op)
}
