package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeUnpackRoundTrip(t *testing.T) {
	severities := []Severity{SeveritySuccess, SeverityFailure}
	generalities := []Generality{GeneralityPrivate, GeneralityGeneral}

	for _, sev := range severities {
		for mod := ModuleUnknown; mod < moduleMax; mod++ {
			for sub := SubmoduleUnknown; sub < submoduleMax; sub++ {
				for _, gen := range generalities {
					for _, code := range []uint8{0, 1, 42, 0x7F} {
						c := Make(sev, mod, sub, gen, code)

						gotSev, gotMod, gotSub, gotGen, gotCode := c.Unpack()
						require.Equal(t, sev, gotSev)
						require.Equal(t, mod, gotMod)
						require.Equal(t, sub, gotSub)
						require.Equal(t, gen, gotGen)
						require.Equal(t, code, gotCode)
					}
				}
			}
		}
	}
}

func TestSeverityClassification(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		warning bool
		failure bool
	}{
		{"success", 0, false, false},
		{"warning", ErrEndOfStream, true, false},
		{"failure", ErrInvalidBlock, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.warning, tt.code.IsWarning())
			require.Equal(t, tt.failure, tt.code.IsFailure())
			require.Equal(t, !tt.failure, tt.code.IsSuccess())
		})
	}
}

func TestSentinelComparison(t *testing.T) {
	var err error = ErrEndOfStream

	require.True(t, errors.Is(err, ErrEndOfStream))
	require.False(t, errors.Is(err, ErrEndOfFile))
}

func TestPackageHelpers(t *testing.T) {
	require.True(t, IsWarning(ErrEndOfStream))
	require.False(t, IsWarning(ErrInvalidBlock))
	require.False(t, IsWarning(nil))

	require.True(t, IsFailure(ErrInvalidBlock))
	require.False(t, IsFailure(ErrEndOfStream))
	require.False(t, IsFailure(nil))

	// Foreign errors count as failures and map to ErrUnexpected.
	foreign := fmt.Errorf("disk on fire")
	require.True(t, IsFailure(foreign))
	require.Equal(t, ErrUnexpected, CodeOf(foreign))
	require.Equal(t, Code(0), CodeOf(nil))
	require.Equal(t, ErrReadOnly, CodeOf(ErrReadOnly))
}

func TestMessages(t *testing.T) {
	require.Equal(t, "end of stream reached", ErrEndOfStream.Error())
	require.Equal(t, "stream is read only", ErrReadOnly.Error())

	require.Equal(t, "stream", ErrReadOnly.ModuleName())
	require.Equal(t, "command", ErrInvalidCommand.SubmoduleName())
}
