// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/formats/aiff"
)

// ExampleDecoder_Decode reports the format an AIFF file would play with.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.aiff")
	if err != nil {
		log.Fatal(err)
	}

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	format := audio.Format{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Encoding:   audio.NativeEncoding(src),
	}
	fmt.Println(format)
}
