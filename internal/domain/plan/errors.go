package plan

import "errors"

var (
	// ErrPlanNotFound indicates the plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrAddonProductNotFound indicates the addon product does not exist.
	ErrAddonProductNotFound = errors.New("addon product not found")
)
