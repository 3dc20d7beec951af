package windowcode

import "errors"

var ErrInvalidParameter = errors.New("windowcode: invalid distribution parameter")
