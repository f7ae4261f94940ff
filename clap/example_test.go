package clap_test

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-clap/clap"
	"github.com/cwbudde/algo-clap/dsp/core"
)

// burst returns 100 ms of an 800 Hz tone, inside the default clap band.
func burst(amplitude float64) core.SampleBuffer {
	pcm := make([]int16, 4410)
	for i := range pcm {
		pcm[i] = int16(amplitude * math.Sin(2*math.Pi*800*float64(i)/44100))
	}
	return core.FromInt16(pcm, 44100)
}

func ExampleDetector_Patterns() {
	d, err := clap.New(clap.DefaultConfig())
	if err != nil {
		panic(err)
	}

	stream := []core.SampleBuffer{
		burst(100), burst(12000), burst(0), burst(0), burst(12000),
		burst(0), burst(0), burst(0), burst(0), burst(0), burst(0), burst(0),
	}

	for p, err := range d.Patterns(slices.Values(stream)) {
		if err != nil {
			panic(err)
		}
		fmt.Println(p.Kind(), p.Start(), p.Intervals())
	}
	// Output:
	// double 100ms [300ms]
}

func ExampleNew() {
	_, err := clap.New(clap.Config{SampleRate: 44100, LowCut: 5000, HighCut: 200, FilterOrder: 5})
	fmt.Println(err)
	// Output:
	// clap: invalid configuration: highcut 200 must exceed lowcut 5000
}
