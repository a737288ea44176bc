package metrics

import "errors"

var ErrRegister = errors.New("failed to register tracker metrics")
