// Package zero adapts a zerolog.Logger to the logger.Logger interface.
package zero

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Handler struct {
	logger zerolog.Logger
}

func New(l zerolog.Logger) *Handler {
	return &Handler{logger: l}
}

func (h *Handler) Error(msg string, args ...any) {
	withFields(h.logger.Error(), args).Msg(msg)
}

func (h *Handler) Warn(msg string, args ...any) {
	withFields(h.logger.Warn(), args).Msg(msg)
}

func (h *Handler) Info(msg string, args ...any) {
	withFields(h.logger.Info(), args).Msg(msg)
}

func (h *Handler) Debug(msg string, args ...any) {
	withFields(h.logger.Debug(), args).Msg(msg)
}

// withFields folds alternating key/value args into the zerolog event. A
// trailing key without a value is logged under the "arg" field.
func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			e = e.Interface("arg", args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		e = e.Interface(key, args[i+1])
	}
	return e
}
