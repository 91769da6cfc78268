package mappers

import "errors"

// ErrUnsupportedMapper is returned by New when the cartridge's header names
// a mapper id this module does not implement.
var ErrUnsupportedMapper = errors.New("mappers: unsupported mapper id")
