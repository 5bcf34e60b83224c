package driver

import (
	"context"

	"nvcheck/internal/capability"
	"nvcheck/internal/version"
)

// apiFloor pairs an NVENC API revision with the minimum Linux driver branch
// that exposes it (per the Video Codec SDK release notes).
type apiFloor struct {
	API       version.Version
	MinDriver version.Version
}

// nvencAPIFloors is ordered newest first; MaxSupportedAPI walks it top-down.
var nvencAPIFloors = []apiFloor{
	{API: version.New(13, 0), MinDriver: version.New(570, 0)},
	{API: version.New(12, 2), MinDriver: version.New(550, 54, 14)},
	{API: version.New(12, 1), MinDriver: version.New(530, 41, 3)},
	{API: version.New(12, 0), MinDriver: version.New(520, 56, 6)},
	{API: version.New(11, 1), MinDriver: version.New(470, 57, 2)},
	{API: version.New(11, 0), MinDriver: version.New(455, 28)},
	{API: version.New(10, 0), MinDriver: version.New(445, 87)},
	{API: version.New(9, 1), MinDriver: version.New(435, 21)},
	{API: version.New(9, 0), MinDriver: version.New(418, 30)},
}

// MaxSupportedAPI maps an installed driver version to the highest NVENC API
// revision it exposes. The boolean is false when the driver predates every
// known API floor.
func MaxSupportedAPI(driver version.Version) (version.Version, bool) {
	for _, floor := range nvencAPIFloors {
		if driver.AtLeast(floor.MinDriver) {
			return floor.API, true
		}
	}
	return version.Version{}, false
}

// MinDriverForAPI returns the minimum driver version required for the given
// NVENC API revision. The boolean is false for unknown API revisions.
func MinDriverForAPI(api version.Version) (version.Version, bool) {
	for _, floor := range nvencAPIFloors {
		if version.Compare(floor.API, api) == 0 {
			return floor.MinDriver, true
		}
	}
	return version.Version{}, false
}

// NvencAPISource adapts a driver-version source into one reporting the
// maximum supported NVENC API version, so requirements can be written
// against the encoder API ("nvenc-api >= 12.2") instead of driver builds.
type NvencAPISource struct {
	driver capability.VersionSource
}

// NewNvencAPISource wraps the given driver-version source.
func NewNvencAPISource(driver capability.VersionSource) *NvencAPISource {
	return &NvencAPISource{driver: driver}
}

// Name implements capability.VersionSource.
func (s *NvencAPISource) Name() string {
	return "nvenc-api(" + s.driver.Name() + ")"
}

// Query implements capability.VersionSource.
func (s *NvencAPISource) Query(ctx context.Context) (version.Version, error) {
	driverVersion, err := s.driver.Query(ctx)
	if err != nil {
		return version.Version{}, err
	}
	api, ok := MaxSupportedAPI(driverVersion)
	if !ok {
		// The driver is present but predates every known API floor; report
		// API 0.0 so the check lands on insufficient rather than undetermined.
		return version.New(0, 0), nil
	}
	return api, nil
}
