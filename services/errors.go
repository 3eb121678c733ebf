package services

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRepoNil      = errors.New("task repository is nil")
	ErrAnalyzerNil  = errors.New("analyzer is nil")
	ErrPublisherNil = errors.New("event publisher is nil")
)
