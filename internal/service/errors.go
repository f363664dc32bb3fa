package service

import "errors"

var (
	ErrNoTickers            = errors.New("error no tickers provided")
	ErrInvalidPeriod        = errors.New("error invalid period")
	ErrInvalidWeight        = errors.New("error invalid weight value")
	ErrWeightsCountMismatch = errors.New("error number of weights must match number of tickers")
	ErrWeightsSumInvalid    = errors.New("error weights must sum to 1")
)
