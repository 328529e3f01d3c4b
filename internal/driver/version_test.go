package driver

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion())
	assert.GreaterOrEqual(t, LLVMVersion().Major(), uint64(16))
}

func TestCheckVersionRejectsOldReleases(t *testing.T) {
	err := checkVersion(semver.MustParse("15.0.7"), SupportedLLVM)

	var uerr *UnsupportedLLVMError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "LLVM 15.0.7 does not satisfy >= 16.0.0", uerr.Error())

	assert.NoError(t, checkVersion(semver.MustParse("19.1.0"), SupportedLLVM))
	assert.Error(t, checkVersion(semver.MustParse("19.1.0"), "not a constraint"))
}
