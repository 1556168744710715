// Package errs holds the failure taxonomy shared by the spatial systems.
// Every error returned by this module wraps exactly one of these sentinels.
package errs

import "errors"

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrUnwalkableEndpoint   = errors.New("unwalkable endpoint")
	ErrNoPathFound          = errors.New("no path found")
	ErrSearchBudgetExceeded = errors.New("search budget exceeded")
	ErrMalformedGrid        = errors.New("malformed grid")
	ErrInvalidParameter     = errors.New("invalid parameter")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidCoordinate, "invalid_coordinate"},
	{ErrUnwalkableEndpoint, "unwalkable_endpoint"},
	{ErrNoPathFound, "no_path_found"},
	{ErrSearchBudgetExceeded, "search_budget_exceeded"},
	{ErrMalformedGrid, "malformed_grid"},
	{ErrInvalidParameter, "invalid_parameter"},
}

// Kind returns a stable short name for the sentinel wrapped by err.
// It returns "" for nil and "unknown" for errors outside the taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
