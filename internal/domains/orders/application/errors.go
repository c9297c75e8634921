package application

import "errors"

// ErrBlankOrderID indicates the request carried no usable order id.
var ErrBlankOrderID = errors.New("orderId is required")
