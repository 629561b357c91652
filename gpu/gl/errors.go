// Copyright 2026 The psxgpu Authors. All rights reserved.

package gl

import (
	"strconv"

	glcore "github.com/go-gl/gl/v4.6-core/gl"
)

// clearErrors drains any pending error codes from glGetError so that a
// subsequent checkErr call reports only errors raised after this
// point.
func clearErrors() {
	for i := 0; i < 64 && glcore.GetError() != glcore.NO_ERROR; i++ {
	}
}

// checkErr returns a non-nil error if glGetError reports one or more
// pending errors.
func checkErr() error {
	code := glcore.GetError()
	if code == glcore.NO_ERROR {
		return nil
	}
	errs := glErrors{glError(code)}
	for i := 0; i < 64; i++ {
		code = glcore.GetError()
		if code == glcore.NO_ERROR {
			break
		}
		errs = append(errs, glError(code))
	}
	return errs
}

type glErrors []glError

func (e glErrors) Error() string {
	s := ""
	for i, c := range e {
		if i > 0 {
			s += "; "
		}
		s += c.String()
	}
	return s
}

type glError uint32

func (e glError) String() string {
	switch e {
	case glcore.INVALID_ENUM:
		return "invalid enum"
	case glcore.INVALID_VALUE:
		return "invalid value"
	case glcore.INVALID_OPERATION:
		return "invalid operation"
	case glcore.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	case glcore.OUT_OF_MEMORY:
		return "out of memory"
	default:
		return "glError(" + strconv.Itoa(int(e)) + ")"
	}
}
