package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckMinimumVersion checks that the library version satisfies the minimum
// version a split plan declares. Returns nil if compatible, error with
// details if not.
//
// Rules:
//   - If the library version is "main" (development build), the check is skipped
//   - If minVersion is empty, the plan accepts any library version
//   - Otherwise the library version must be greater than or equal to minVersion
func CheckMinimumVersion(libraryVersion, minVersion string) error {
	// Strip 'v' prefix if present for consistency
	libraryVersion = strings.TrimPrefix(libraryVersion, "v")
	minVersion = strings.TrimPrefix(minVersion, "v")

	// Skip version check for "main" (development builds)
	if libraryVersion == "main" {
		return nil
	}

	// Plans without a minimum accept every library version
	if minVersion == "" {
		return nil
	}

	librarySemver, err := semver.NewVersion(libraryVersion)
	if err != nil {
		return fmt.Errorf("invalid library version '%s': %w", libraryVersion, err)
	}

	minSemver, err := semver.NewVersion(minVersion)
	if err != nil {
		return fmt.Errorf("invalid minimum version '%s': %w", minVersion, err)
	}

	if librarySemver.LessThan(minSemver) {
		return fmt.Errorf("plan requires erasplit >= %s but library is %s",
			minSemver.String(), librarySemver.String())
	}

	return nil
}
