package pricing

import "errors"

var (
	ErrInvalidPostcode       = errors.New("invalid postcode")
	ErrUnknownPostcode       = errors.New("unknown postcode")
	ErrPalletCountOutOfRange = errors.New("pallet count out of range")
	ErrInvalidSurcharge      = errors.New("invalid surcharge")
	ErrInvalidDualCollection = errors.New("invalid dual collection split")
)
