package contracts

import "errors"

// ErrInvalidPayload - тело не прошло проверку схемой. Повторная обработка не поможет.
var ErrInvalidPayload = errors.New("payload does not match contract")
