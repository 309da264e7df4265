package pars_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := pars.Errorf(pars.EINVALID, "invalid URL %q", "nope")

	assert.Equal(t, pars.EINVALID, pars.ErrorCode(err))
	assert.Equal(t, "invalid URL \"nope\"", pars.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pars.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pars.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pars.EINTERNAL, pars.ErrorCode(errors.New("boom")))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	cause := errors.New("HTTP 502 for https://example.com")
	err := fmt.Errorf("run: %w", pars.WrapError(pars.EEXHAUSTED, cause, "all strategies failed"))

	assert.Equal(t, pars.EEXHAUSTED, pars.ErrorCode(err))
	assert.Equal(t, "all strategies failed: HTTP 502 for https://example.com", pars.ErrorMessage(err))
	assert.ErrorIs(t, err, cause)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	t.Run("accepts every mode name", func(t *testing.T) {
		t.Parallel()

		for _, m := range pars.Modes {
			got, err := pars.ParseMode(string(m))
			require.NoError(t, err)
			assert.Equal(t, m, got)
		}
	})

	t.Run("accepts aliases case-insensitively", func(t *testing.T) {
		t.Parallel()

		got, err := pars.ParseMode(" Secrets ")
		require.NoError(t, err)
		assert.Equal(t, pars.ModeSecret, got)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		t.Parallel()

		_, err := pars.ParseMode("pdf")
		require.Error(t, err)
		assert.Equal(t, pars.EINVALID, pars.ErrorCode(err))
	})
}

func TestMode_Positional(t *testing.T) {
	t.Parallel()

	assert.True(t, pars.ModeData.Positional())
	assert.True(t, pars.ModeHTML.Positional())
	assert.False(t, pars.ModeEmail.Positional())
	assert.False(t, pars.ModeGiftCode.Positional())
}

func TestProgress_Percent(t *testing.T) {
	t.Parallel()

	t.Run("undefined without estimate", func(t *testing.T) {
		t.Parallel()

		_, ok := pars.Progress{Found: 3}.Percent()
		assert.False(t, ok)
	})

	t.Run("ratio of found to estimate", func(t *testing.T) {
		t.Parallel()

		pct, ok := pars.Progress{Found: 5, EstimatedTotal: 20, HasEstimate: true}.Percent()
		require.True(t, ok)
		assert.InDelta(t, 0.25, pct, 1e-9)
	})

	t.Run("capped at one when found exceeds estimate", func(t *testing.T) {
		t.Parallel()

		pct, ok := pars.Progress{Found: 50, EstimatedTotal: 20, HasEstimate: true}.Percent()
		require.True(t, ok)
		assert.InDelta(t, 1.0, pct, 1e-9)
	})
}

func TestRunState_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, pars.StateCompleted.Terminal())
	assert.True(t, pars.StateStopped.Terminal())
	assert.True(t, pars.StateFailed.Terminal())
	assert.False(t, pars.StateFetchingFallback.Terminal())
	assert.Equal(t, pars.RunStopped, pars.StatusFor(pars.StateStopped))
	assert.Equal(t, pars.RunRunning, pars.StatusFor(pars.StateParsing))
}

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&pars.Run{URL: "https://example.com", Mode: pars.ModeLink}).Validate())
	assert.Equal(t, pars.EINVALID, pars.ErrorCode((&pars.Run{Mode: pars.ModeLink}).Validate()))
	assert.Equal(t, pars.EINVALID, pars.ErrorCode((&pars.Run{URL: "https://example.com", Mode: "pdf"}).Validate()))
}
