package async

import "errors"

var ErrAwaitAborted = errors.New("async: stopped waiting for future completion")
