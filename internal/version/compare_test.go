package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMinimumVersion(t *testing.T) {
	tests := []struct {
		name           string
		libraryVersion string
		minVersion     string
		expectError    bool
		errorContains  string
	}{
		{
			name:           "exact match",
			libraryVersion: "1.2.0",
			minVersion:     "1.2.0",
			expectError:    false,
		},
		{
			name:           "library newer patch",
			libraryVersion: "1.2.5",
			minVersion:     "1.2.0",
			expectError:    false,
		},
		{
			name:           "library newer minor",
			libraryVersion: "1.3.0",
			minVersion:     "1.2.0",
			expectError:    false,
		},
		{
			name:           "library newer major",
			libraryVersion: "2.0.0",
			minVersion:     "1.9.9",
			expectError:    false,
		},
		{
			name:           "library too old",
			libraryVersion: "1.1.0",
			minVersion:     "1.2.0",
			expectError:    true,
			errorContains:  "requires erasplit >= 1.2.0",
		},
		{
			name:           "library major too old",
			libraryVersion: "1.9.9",
			minVersion:     "2.0.0",
			expectError:    true,
			errorContains:  "requires erasplit >= 2.0.0",
		},
		{
			name:           "development build skips check",
			libraryVersion: "main",
			minVersion:     "99.0.0",
			expectError:    false,
		},
		{
			name:           "empty minimum accepts anything",
			libraryVersion: "0.1.0",
			minVersion:     "",
			expectError:    false,
		},
		{
			name:           "v prefix on library",
			libraryVersion: "v1.2.0",
			minVersion:     "1.2.0",
			expectError:    false,
		},
		{
			name:           "v prefix on minimum",
			libraryVersion: "1.2.0",
			minVersion:     "v1.2.0",
			expectError:    false,
		},
		{
			name:           "invalid library version",
			libraryVersion: "not-a-version",
			minVersion:     "1.2.0",
			expectError:    true,
			errorContains:  "invalid library version",
		},
		{
			name:           "invalid minimum version",
			libraryVersion: "1.2.0",
			minVersion:     "not-a-version",
			expectError:    true,
			errorContains:  "invalid minimum version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMinimumVersion(tt.libraryVersion, tt.minVersion)

			if tt.expectError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
