package nmea

import (
	"fmt"
	"strings"
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Real receiver output, one line per decoded sentence type
var sampleLines = []string{
	"$GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00*74",
	"$GPGSV,3,2,11,14,25,170,00,16,57,208,39,18,67,296,40,19,40,246,00*74",
	"$GPGSV,3,3,11,22,42,067,42,24,14,311,43,27,05,244,00,,,,*4D",
	"$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39",
	"$GPTXT,01,01,02,u-blox ag - www.u-blox.com*50",
	"$GPTXT,01,01,02,ANTSTATUS=INIT*25",
	"$GPGLL,4916.45,N,12311.12,W,225444,A,A*5C",
	"$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K,A*25",
	"$GPGLL,,,,,,V,N*64",
	"$GNGSA,A,3,80,71,73,79,69,,,,,,,,1.83,1.09,1.47,1*0A",
}

func splitSample(t *testing.T, line string) ([]byte, byte) {
	t.Helper()
	star := strings.LastIndexByte(line, '*')
	require.Greater(t, star, 0)
	var want byte
	_, err := fmt.Sscanf(line[star+1:], "%02X", &want)
	require.NoError(t, err)
	return []byte(line[1:star]), want
}

func TestChecksum_SampleLines(t *testing.T) {
	for _, line := range sampleLines {
		t.Run(line, func(t *testing.T) {
			body, want := splitSample(t, line)
			assert.Equal(t, want, Checksum(body))
			assert.True(t, VerifyChecksum(body, want))
			assert.Equal(t, fmt.Sprintf("%02X", Checksum(body)), gonmea.Checksum(string(body)))
		})
	}
}

func TestChecksum_LegacyVariant(t *testing.T) {
	body := []byte("GPTXT,01,01,02,PIN OK")
	legacy := legacyChecksum(body)
	require.NotEqual(t, Checksum(body), legacy)
	assert.True(t, VerifyChecksum(body, legacy))
}

func TestChecksum_SingleBitFlipRejected(t *testing.T) {
	for _, line := range sampleLines {
		body, want := splitSample(t, line)
		for i := range body {
			for bit := 0; bit < 8; bit++ {
				flipped := append([]byte(nil), body...)
				flipped[i] ^= 1 << bit
				assert.False(t, VerifyChecksum(flipped, want),
					"%s: byte %d bit %d accepted", line, i, bit)
			}
		}
	}
}
