package domain

import "errors"

// ErrInvalidFileType is an error thrown when the file name does not match the accepted types
var ErrInvalidFileType = errors.New("filetype not allowed")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file is too big")

// ErrFileSizeTooSmall is an error thrown when file size is too small
var ErrFileSizeTooSmall = errors.New("file is too small")

// ErrPersistFailed is an error thrown when the received file could not be stored
var ErrPersistFailed = errors.New("file could not be saved")

// ErrNamingExhausted is an error thrown when no free name could be reserved
var ErrNamingExhausted = errors.New("no free name available")

// ErrFileNotFound is an error thrown when file is not found
var ErrFileNotFound = errors.New("file not found")

// ErrProfileNotFound is an error thrown when the upload profile is unknown
var ErrProfileNotFound = errors.New("upload profile not found")

// ErrPathTraversal is an error thrown when a path escapes its root directory
var ErrPathTraversal = errors.New("path escapes root directory")

// ErrTransportAborted is an error thrown when the request transport was interrupted
var ErrTransportAborted = errors.New("transport aborted")

// ErrRequestTooLarge is an error thrown when the request body exceeds the max post size
var ErrRequestTooLarge = errors.New("request too large")

// ErrMalformedRequest is an error thrown when the request body could not be decoded
var ErrMalformedRequest = errors.New("malformed request")

// ErrDerivativeFailed is an error thrown when an image version could not be generated
var ErrDerivativeFailed = errors.New("derivative generation failed")

// ErrInvalidDimension is an error thrown when an image version dimension cannot be parsed
var ErrInvalidDimension = errors.New("invalid dimension")

// ErrInvalidVersionName is an error thrown when an image version name cannot be stored or serialized
var ErrInvalidVersionName = errors.New("invalid image version name")
