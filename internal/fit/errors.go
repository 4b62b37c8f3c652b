package fit

import "errors"

var (
	// ErrMissingSelection is reported when a calculation is requested without a container.
	ErrMissingSelection = errors.New("no container selected")
	// ErrUnknownContainer is reported when the selected code is not in the container catalog.
	ErrUnknownContainer = errors.New("selected container is not in the catalog")
)
