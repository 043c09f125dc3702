package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/roach88/mdaq/internal/compiler"
	"github.com/roach88/mdaq/internal/engine"
	"github.com/roach88/mdaq/internal/ir"
)

// loadSettings compiles a settings file. A missing file is a command error;
// anything the compiler rejects is a failure.
func loadSettings(path string) (*compiler.Result, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("settings file not found: %s", path))
	}
	res, err := compiler.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid settings", err)
	}
	return res, nil
}

// settingsErrors flattens a compiler error into validation errors.
// ok is false when err is not a settings problem (e.g. an I/O error).
func settingsErrors(err error) (errs compiler.ValidationErrors, ok bool) {
	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		return compiler.ValidationErrors{verr}, true
	}
	var cerr *compiler.CompileError
	if errors.As(err, &cerr) {
		msg := cerr.Message
		if cerr.Pos.IsValid() {
			msg = fmt.Sprintf("line %d: %s", cerr.Pos.Line(), msg)
		}
		return compiler.ValidationErrors{{Field: cerr.Field, Message: msg, Code: compiler.ErrParse}}, true
	}
	return nil, false
}

// engineErrorCode returns the engine error code carried by err, or "".
func engineErrorCode(err error) string {
	var eerr *engine.Error
	if errors.As(err, &eerr) {
		return string(eerr.Code)
	}
	return ""
}

// formatAxes renders a nesting as "time > position > channel > z".
func formatAxes(axes []ir.Axis) string {
	names := make([]string, len(axes))
	for i, a := range axes {
		names[i] = string(a)
	}
	return strings.Join(names, " > ")
}

// formatEvent renders one event as a single text line.
func formatEvent(index int, axes []ir.Axis, ev ir.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%5d ", index)
	for _, a := range axes {
		if i, ok := ev.Index(a); ok {
			fmt.Fprintf(&b, " %s=%d", a, i)
		}
	}
	if ev.StageXY != nil {
		fmt.Fprintf(&b, "  xy=(%g, %g)", ev.StageXY.X, ev.StageXY.Y)
	}
	if ev.PositionLabel != "" {
		fmt.Fprintf(&b, " [%s]", ev.PositionLabel)
	}
	if ev.ChannelConfig != "" {
		fmt.Fprintf(&b, "  %s/%s", ev.ChannelGroup, ev.ChannelConfig)
	}
	if ev.ExposureMs != nil {
		fmt.Fprintf(&b, " %gms", *ev.ExposureMs)
	}
	if ev.ZPositionUm != nil {
		fmt.Fprintf(&b, "  z=%gum", *ev.ZPositionUm)
	}
	if ev.MinimumStartTimeMs != nil {
		fmt.Fprintf(&b, "  start>=%dms", *ev.MinimumStartTimeMs)
	}
	return b.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
