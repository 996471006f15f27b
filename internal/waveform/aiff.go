package waveform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"kitcrate/internal/services"
)

func wrapAIFF(op, msg string, err error) error {
	return services.Wrap(services.ErrExtraction, "waveform", op, msg, err)
}

// DecodeAIFFFile decodes an AIFF file from disk.
func DecodeAIFFFile(path string) (*Waveform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapAIFF("read aiff", path, err)
	}
	w, err := DecodeAIFF(data)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}

// DecodeAIFF decodes AIFF bytes. PCM 8/16/24-bit big-endian audio is
// supported; AIFC compression types are not.
func DecodeAIFF(data []byte) (*Waveform, error) {
	if len(data) < 12 || string(data[0:4]) != "FORM" || string(data[8:12]) != "AIFF" {
		return nil, wrapAIFF("decode aiff", "not a FORM/AIFF stream", nil)
	}

	var (
		channels   int
		sampleRate int
		bitDepth   int
		frames     int
		pcm        []byte
		haveComm   bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "COMM":
			if chunkSize < 18 {
				return nil, wrapAIFF("decode aiff", "COMM chunk too short", nil)
			}
			channels = int(int16(binary.BigEndian.Uint16(data[body : body+2])))
			frames = int(binary.BigEndian.Uint32(data[body+2 : body+6]))
			bitDepth = int(int16(binary.BigEndian.Uint16(data[body+6 : body+8])))
			sampleRate = int(decodeExtended(data[body+8 : body+18]))
			haveComm = true
		case "SSND":
			if chunkSize < 8 {
				return nil, wrapAIFF("decode aiff", "SSND chunk too short", nil)
			}
			dataOffset := int(binary.BigEndian.Uint32(data[body : body+4]))
			if dataOffset < 0 || 8+dataOffset > chunkSize {
				return nil, wrapAIFF("decode aiff", fmt.Sprintf("SSND offset %d exceeds chunk body", dataOffset), nil)
			}
			pcm = data[body+8+dataOffset : body+chunkSize]
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveComm {
		return nil, wrapAIFF("decode aiff", "missing COMM chunk", nil)
	}
	if pcm == nil {
		return nil, wrapAIFF("decode aiff", "missing SSND chunk", nil)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, wrapAIFF("decode aiff", fmt.Sprintf("invalid COMM: channels=%d rate=%d", channels, sampleRate), nil)
	}

	bytesPerSample := bitDepth / 8
	if bytesPerSample <= 0 || bitDepth > 24 {
		return nil, wrapAIFF("decode aiff", fmt.Sprintf("unsupported bit depth %d", bitDepth), nil)
	}
	frameSize := bytesPerSample * channels
	available := len(pcm) / frameSize
	if frames <= 0 || frames > available {
		frames = available
	}

	samples := make([][]float64, channels)
	for c := range samples {
		samples[c] = make([]float64, frames)
	}
	for frame := 0; frame < frames; frame++ {
		base := frame * frameSize
		for c := 0; c < channels; c++ {
			chunk := pcm[base+c*bytesPerSample:]
			var value float64
			switch bitDepth {
			case 8:
				// 8-bit AIFF is signed, unlike WAV.
				value = float64(int8(chunk[0])) / 128
			case 16:
				value = float64(int16(binary.BigEndian.Uint16(chunk[:2]))) / 32768
			case 24:
				raw := int32(chunk[0])<<16 | int32(chunk[1])<<8 | int32(chunk[2])
				if raw&0x800000 != 0 {
					raw |= ^int32(0xFFFFFF)
				}
				value = float64(raw) / 8388608
			}
			samples[c][frame] = value
		}
	}

	return &Waveform{
		Container:  ContainerAIFF,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Samples:    samples,
	}, nil
}

// EncodeAIFF writes w as PCM AIFF at the given bit depth (16 or 24).
func EncodeAIFF(out io.Writer, w *Waveform, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return services.Wrap(services.ErrConversion, "waveform", "encode aiff", fmt.Sprintf("unsupported target depth %d", bitDepth), nil)
	}
	channels := w.Channels()
	if channels == 0 || w.SampleRate <= 0 {
		return services.Wrap(services.ErrConversion, "waveform", "encode aiff", "empty waveform", nil)
	}

	frames := w.Frames()
	bytesPerSample := bitDepth / 8
	dataSize := frames * channels * bytesPerSample
	ssndSize := 8 + dataSize
	formSize := 4 + (8 + 18) + (8 + ssndSize)

	var buf bytes.Buffer
	buf.Grow(12 + formSize)
	buf.WriteString("FORM")
	_ = binary.Write(&buf, binary.BigEndian, uint32(formSize))
	buf.WriteString("AIFF")

	buf.WriteString("COMM")
	_ = binary.Write(&buf, binary.BigEndian, uint32(18))
	_ = binary.Write(&buf, binary.BigEndian, int16(channels))
	_ = binary.Write(&buf, binary.BigEndian, uint32(frames))
	_ = binary.Write(&buf, binary.BigEndian, int16(bitDepth))
	buf.Write(encodeExtended(float64(w.SampleRate)))

	buf.WriteString("SSND")
	_ = binary.Write(&buf, binary.BigEndian, uint32(ssndSize))
	_ = binary.Write(&buf, binary.BigEndian, uint32(0)) // offset
	_ = binary.Write(&buf, binary.BigEndian, uint32(0)) // block size

	for frame := 0; frame < frames; frame++ {
		for c := 0; c < channels; c++ {
			value := clampSample(w.Samples[c][frame])
			switch bitDepth {
			case 16:
				_ = binary.Write(&buf, binary.BigEndian, int16(math.Round(value*32767)))
			case 24:
				scaled := int32(math.Round(value * 8388607))
				buf.WriteByte(byte(scaled >> 16))
				buf.WriteByte(byte(scaled >> 8))
				buf.WriteByte(byte(scaled))
			}
		}
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return services.Wrap(services.ErrConversion, "waveform", "encode aiff", "write stream", err)
	}
	return nil
}

// decodeExtended parses the 80-bit IEEE 754 extended float AIFF uses for the
// sample rate field.
func decodeExtended(b []byte) float64 {
	if len(b) < 10 {
		return 0
	}
	sign := 1.0
	if b[0]&0x80 != 0 {
		sign = -1
	}
	exponent := int(binary.BigEndian.Uint16(b[0:2]) & 0x7FFF)
	mantissa := binary.BigEndian.Uint64(b[2:10])
	if exponent == 0 && mantissa == 0 {
		return 0
	}
	return sign * float64(mantissa) * math.Pow(2, float64(exponent-16383-63))
}

// encodeExtended renders a float as the 80-bit extended format. Sample rates
// are small positive integers, so the simple normalization path suffices.
func encodeExtended(v float64) []byte {
	out := make([]byte, 10)
	if v <= 0 {
		return out
	}
	exponent := uint16(16383 + 63)
	mantissa := uint64(v)
	for mantissa&0x8000000000000000 == 0 {
		mantissa <<= 1
		exponent--
	}
	binary.BigEndian.PutUint16(out[0:2], exponent)
	binary.BigEndian.PutUint64(out[2:10], mantissa)
	return out
}
