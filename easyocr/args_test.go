package easyocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunArgs_Decoder(t *testing.T) {
	tests := []struct {
		in   Decoder
		want Decoder
	}{
		{"greedy", DecoderGreedy},
		{"beamsearch", DecoderBeamSearch},
		{"wordbeamsearch", DecoderWordBeamSearch},
		{"", DecoderGreedy},
		{"Greedy", DecoderGreedy},
		{"beam", DecoderGreedy},
		{"wordbeamsearch ", DecoderGreedy},
		{"不存在", DecoderGreedy},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, RunArgs{Decoder: tt.in}.decoder())
		})
	}
}

func TestDefaultRunArgs(t *testing.T) {
	a := DefaultRunArgs()
	assert.Equal(t, DecoderGreedy, a.Decoder)
	assert.Empty(t, a.Rotations)
	assert.Zero(t, a.CPUs)
	assert.False(t, a.Paragraph)
	assert.Equal(t, a.decoder(), RunArgs{}.decoder())
}
