package dataset

import "fmt"

// UnknownRegionError reports a region name that the snapshot does not contain.
type UnknownRegionError struct {
	Region string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q", e.Region)
}

// InvalidDataError reports reference data that breaks the dataset contract.
type InvalidDataError struct {
	Region string
	Reason string
}

func (e *InvalidDataError) Error() string {
	if e.Region == "" {
		return "invalid dataset: " + e.Reason
	}
	return fmt.Sprintf("invalid dataset: region %q: %s", e.Region, e.Reason)
}
