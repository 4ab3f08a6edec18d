// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile             = errors.New("not a WAV file")
	ErrUnsupportedWavEncoding = errors.New("only 16/24-bit PCM WAV supported")
	ErrInvalidChannelCount    = errors.New("WAV writer needs 1 or 2 channels")
	ErrPartialFrame           = errors.New("sample count is not a multiple of the channel count")
)
