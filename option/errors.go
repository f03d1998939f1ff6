//
// Copyright (C) 2026 The layoutparse Authors. All rights reserved.
//
// layoutparse is licensed under the Apache License Version 2.0.
//

package option

import "errors"

// Sentinel errors for mode resolution and option merging.
var (
	// ErrUnknownMode is returned when a mode identifier is not one of the
	// built-in modes.
	ErrUnknownMode = errors.New("option: unknown mode")

	// ErrInvalidOption is returned when a merged option set contains an
	// unknown key or a value of the wrong type.
	ErrInvalidOption = errors.New("option: invalid option")
)
